package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

// binaryName is the executable inside release archives.
const binaryName = "wordiz"

// maxDownload bounds a single release asset.
const maxDownload = 256 << 20

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
)

// Stage is one step of an install.
type Stage int

const (
	StageResolve Stage = iota
	StageDownload
	StageVerify
	StageUnpack
	StageReplace
	StageDone
)

var stageNames = [...]string{"resolve", "download", "verify", "unpack", "replace", "done"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Step is reported as each stage begins. Tag is empty until the release
// has been resolved.
type Step struct {
	Stage Stage
	Tag   string
}

// InstallInput selects the release to install. An empty Tag means the
// latest release.
type InstallInput struct {
	CurrentVersion string
	Tag            string
}

// Install replaces the running executable with the wordiz binary from a
// release, after checking the archive against the release's checksums.txt.
// report may be nil.
func (c *Checker) Install(ctx context.Context, input InstallInput, report func(Step)) error {
	if report == nil {
		report = func(Step) {}
	}
	if isDevBuild(input.CurrentVersion) {
		return ErrDevBuild
	}

	tag := input.Tag
	if tag == "" {
		report(Step{Stage: StageResolve})
		result, err := c.Check(ctx, &CheckInput{Version: input.CurrentVersion})
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		if !result.UpdateAvailable {
			return ErrAlreadyLatest
		}
		tag = result.LatestVersion
	}

	asset, err := assetFor(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}

	report(Step{Stage: StageDownload, Tag: tag})
	archive, digest, err := c.fetch(ctx, c.assetURL(tag, asset.name))
	if err != nil {
		return fmt.Errorf("download %s: %w", asset.name, err)
	}

	report(Step{Stage: StageVerify, Tag: tag})
	sums, _, err := c.fetch(ctx, c.assetURL(tag, "checksums.txt"))
	if err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}
	m, err := parseManifest(bytes.NewReader(sums))
	if err != nil {
		return fmt.Errorf("read checksums: %w", err)
	}
	if err := m.verify(asset.name, digest); err != nil {
		return err
	}

	report(Step{Stage: StageUnpack, Tag: tag})
	binary, err := asset.unpack(archive, asset.binary)
	if err != nil {
		return fmt.Errorf("unpack %s: %w", asset.name, err)
	}

	report(Step{Stage: StageReplace, Tag: tag})
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	if err := replaceExecutable(target, binary); err != nil {
		return fmt.Errorf("replace %s: %w", target, err)
	}

	report(Step{Stage: StageDone, Tag: tag})
	return nil
}

func (c *Checker) assetURL(tag, name string) string {
	base := strings.TrimRight(c.downloadBaseURL, "/")
	return base + "/" + path.Join(c.owner, c.repo, "releases/download", tag, name)
}

// fetch downloads url and returns its body with the body's SHA-256.
func (c *Checker) fetch(ctx context.Context, url string) ([]byte, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	h := sha256.New()
	body, err := io.ReadAll(io.TeeReader(io.LimitReader(resp.Body, maxDownload+1), h))
	if err != nil {
		return nil, nil, err
	}
	if len(body) > maxDownload {
		return nil, nil, fmt.Errorf("asset larger than %d bytes", maxDownload)
	}
	return body, h.Sum(nil), nil
}

// releaseAsset is the archive published for one platform.
type releaseAsset struct {
	name   string
	binary string
	unpack func(archive []byte, binary string) ([]byte, error)
}

var archLabels = map[string]string{
	"amd64": "x86_64",
	"arm64": "arm64",
	"386":   "i386",
}

// assetFor names the archive for a platform. macOS ships one universal
// archive, so its architecture is not checked.
func assetFor(goos, goarch string) (releaseAsset, error) {
	if goos == "darwin" {
		return releaseAsset{name: binaryName + "_Darwin_all.tar.gz", binary: binaryName, unpack: untarGz}, nil
	}

	arch, ok := archLabels[goarch]
	if !ok {
		return releaseAsset{}, fmt.Errorf("no release for architecture %s", goarch)
	}
	switch goos {
	case "linux":
		return releaseAsset{
			name:   fmt.Sprintf("%s_Linux_%s.tar.gz", binaryName, arch),
			binary: binaryName,
			unpack: untarGz,
		}, nil
	case "windows":
		return releaseAsset{
			name:   fmt.Sprintf("%s_Windows_%s.zip", binaryName, arch),
			binary: binaryName + ".exe",
			unpack: unzip,
		}, nil
	}
	return releaseAsset{}, fmt.Errorf("no release for operating system %s", goos)
}

// manifest maps asset names to SHA-256 digests from a checksums.txt.
type manifest map[string][]byte

// parseManifest reads sha256sum output. Lines that do not hold a digest and
// a name are skipped; a "*" binary-mode marker on the name is dropped.
func parseManifest(r io.Reader) (manifest, error) {
	m := manifest{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 {
			continue
		}
		digest, err := hex.DecodeString(fields[0])
		if err != nil || len(digest) != sha256.Size {
			continue
		}
		m[strings.TrimPrefix(fields[1], "*")] = digest
	}
	return m, sc.Err()
}

func (m manifest) verify(name string, digest []byte) error {
	want, ok := m[name]
	if !ok {
		return fmt.Errorf("%w: %s is not listed in checksums.txt", ErrChecksum, name)
	}
	if !bytes.Equal(want, digest) {
		return fmt.Errorf("%w: %s has digest %x, want %x", ErrChecksum, name, digest, want)
	}
	return nil
}

func untarGz(archive []byte, binary string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return nil, err
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s not found in archive", binary)
		}
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag == tar.TypeReg && path.Base(hdr.Name) == binary {
			return io.ReadAll(io.LimitReader(tr, maxDownload))
		}
	}
}

func unzip(archive []byte, binary string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, err
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || path.Base(f.Name) != binary {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return io.ReadAll(io.LimitReader(rc, maxDownload))
	}
	return nil, fmt.Errorf("%s not found in archive", binary)
}

// replaceExecutable writes binary next to target and swaps it in. The old
// file is moved aside first, since Windows will not overwrite a running
// executable, and is put back if the swap fails.
func replaceExecutable(target string, binary []byte) error {
	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(target), "."+binaryName+"-*.new")
	if err != nil {
		return err
	}
	staged := f.Name()
	defer func() { _ = os.Remove(staged) }()

	if _, err := f.Write(binary); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(staged, info.Mode().Perm()); err != nil {
		return err
	}

	old := target + ".old"
	_ = os.Remove(old)
	if err := os.Rename(target, old); err != nil {
		return err
	}
	if err := os.Rename(staged, target); err != nil {
		_ = os.Rename(old, target)
		return err
	}
	_ = os.Remove(old)
	return nil
}

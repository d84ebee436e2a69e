package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordiz/internal/selfupdate"
)

const updateTimeout = 2 * time.Minute

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update wordiz to the latest release",
	RunE: func(cmd *cobra.Command, args []string) error {
		checkOnly, _ := cmd.Flags().GetBool("check")
		tag, _ := cmd.Flags().GetString("tag")

		checker := selfupdate.NewChecker(selfupdate.WithTimeout(updateTimeout))
		ctx, cancel := context.WithTimeout(cmd.Context(), updateTimeout)
		defer cancel()

		if checkOnly {
			return reportLatest(ctx, checker)
		}

		err := checker.Install(ctx, selfupdate.InstallInput{CurrentVersion: version, Tag: tag}, printStep)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, selfupdate.ErrDevBuild):
			fmt.Println("This is a development build; install a tagged release to enable updates.")
			return nil
		case errors.Is(err, selfupdate.ErrAlreadyLatest):
			fmt.Printf("wordiz %s is the latest release.\n", version)
			return nil
		case errors.Is(err, os.ErrPermission):
			return fmt.Errorf("%w\n\nThe wordiz binary is not writable; try: sudo wordiz update", err)
		}
		return err
	},
}

func reportLatest(ctx context.Context, checker *selfupdate.Checker) error {
	result, err := checker.Check(ctx, &selfupdate.CheckInput{Version: version})
	if err != nil {
		return fmt.Errorf("check for updates: %w", err)
	}
	if result.UpdateAvailable {
		fmt.Printf("wordiz %s is available (running %s)\n%s\n", result.LatestVersion, version, result.ReleaseURL)
	} else {
		fmt.Printf("Latest release is %s; running %s.\n", result.LatestVersion, version)
	}
	return nil
}

func printStep(s selfupdate.Step) {
	switch s.Stage {
	case selfupdate.StageResolve:
		fmt.Println("Looking up the latest release...")
	case selfupdate.StageDownload:
		fmt.Printf("Downloading %s...\n", s.Tag)
	case selfupdate.StageVerify:
		fmt.Println("Checking the archive against checksums.txt...")
	case selfupdate.StageReplace:
		fmt.Println("Installing...")
	case selfupdate.StageDone:
		fmt.Printf("wordiz is now %s.\n", s.Tag)
	}
}

func init() {
	updateCmd.Flags().Bool("check", false, "Only report whether a newer release exists")
	updateCmd.Flags().String("tag", "", "Install this release tag instead of the latest (e.g. v0.4.1)")
}

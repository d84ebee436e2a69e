package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/wordiz/internal/app"
	"github.com/abhisek/wordiz/internal/drill"
	drillscreen "github.com/abhisek/wordiz/internal/screens/drill"
	"github.com/abhisek/wordiz/internal/screens/home"
	"github.com/abhisek/wordiz/internal/screens/setup"
	"github.com/abhisek/wordiz/internal/selfupdate"
	"github.com/abhisek/wordiz/internal/session"
	"github.com/abhisek/wordiz/internal/store"
)

// updateCheckTimeout bounds the release lookup done before the TUI starts.
const updateCheckTimeout = 1500 * time.Millisecond

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file.
	if cfg.Log.File == "" {
		dir, err := store.DataDir()
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.Log.File = filepath.Join(dir, "wordiz.log")
	}
	logger, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	deck, err := loadDeck(cfg)
	if err != nil {
		return fmt.Errorf("load words: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	seed := cfg.Drill.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	ctrl := session.NewController(
		rand.New(rand.NewPCG(seed, seed)),
		session.WithLogger(logger),
		session.WithGeneratorConfig(drill.DefaultConfig().WithTimeLimit(cfg.Drill.TimeLimit)),
	)

	logger.WithFields(logrus.Fields{
		"deck":  deck.Name,
		"words": len(deck.Entries),
		"kind":  cfg.Drill.Kind,
	}).Info("starting wordiz")

	return app.Run(app.Options{
		Logger: logger,
		Home: home.Options{
			DeckName: deck.Name,
			History:  st.HistoryRepo(),
			Setup: setup.Options{
				Drill: drillscreen.Deps{
					Controller: ctrl,
					Recorder:   session.NewRecorder(st.HistoryRepo(), st.EventRepo(), logger),
				},
				Pool:         deck.Entries,
				DefaultKind:  cfg.DrillKind(),
				DefaultCount: cfg.Drill.Count,
			},
			LatestVersion: latestVersion(cmd.Context(), logger),
		},
	})
}

// latestVersion returns the newer release tag, or "" when up to date or the
// check fails.
func latestVersion(ctx context.Context, logger logrus.FieldLogger) string {
	if version == "(devel)" {
		return ""
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, updateCheckTimeout)
	defer cancel()

	result, err := selfupdate.NewChecker(selfupdate.WithTimeout(updateCheckTimeout)).
		Check(ctx, &selfupdate.CheckInput{Version: version})
	if err != nil {
		logger.WithError(err).Debug("update check failed")
		return ""
	}
	if !result.UpdateAvailable {
		return ""
	}
	return result.LatestVersion
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-frogger/internal/platform/tui"
	"github.com/vovakirdan/tui-frogger/internal/storage"
)

var localCmd = &cobra.Command{
	Use:   "local",
	Short: "Play both boards in one terminal",
	Long: `Run both boards side by side, linked in-process.

Controls:
  Player 1: Arrows (stick), I/J/K/L (buttons)
  Player 2: W/A/S/D (stick), T/F/G/H (buttons)
  Ctrl+S    - Save a screenshot
  Q/Ctrl+C  - Quit

Only player 1's rounds are written to the history.`,
	Args: cobra.NoArgs,
	RunE: runLocal,
}

func runLocal(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, logFile, err := openLogger(cfg, "frogger")
	if err != nil {
		return err
	}
	defer logFile.Close()

	opts := cfg.SessionOptions()
	opts.Logger = logger

	store, err := storage.Open(cfg.StoragePath())
	if err != nil {
		logger.Warn("could not open history database", "error", err)
	} else {
		defer store.Close()
		opts.Recorder = store.ForPeer("local")
	}

	return tui.RunSplit(opts, cfg.Link.Buffer, runtimeConfig(cfg))
}

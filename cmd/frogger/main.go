// frogger runs two-player link Frogger boards in the terminal.
//
// Usage:
//
//	frogger play             - Play one board against a peer on the LAN
//	frogger local            - Play both boards in one terminal
//	frogger serve            - Start SSH server that pairs remote players
//	frogger stats            - Show round history and totals
//	frogger drivers          - List link drivers
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.frogger/configs/frogger.yaml)
//	--fps <rate>        - Override game.tick_rate
//	--db <path>         - Override storage.path
//	--log-file <path>   - Override log.file
//	--log-level <lvl>   - Override log.level
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-frogger/internal/config"
	"github.com/vovakirdan/tui-frogger/internal/core"
)

var (
	// Global flags
	flagConfig   string
	flagFPS      int
	flagDBPath   string
	flagLogFile  string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "frogger",
	Short: "2-Player Frogger - race a friend across the road",
	Long: `2-Player Frogger runs the two-board link game in your terminal.
Each board shows its own frog and the opponent's; the first frog to
reach the far bank wins the round.

Available commands:
  play     - One board, linked to a peer over UDP or websocket
  local    - Both boards side by side over an in-process link
  serve    - SSH server with lobby codes for remote pairs
  stats    - Round history and win/loss totals
  drivers  - List link drivers

Examples:
  frogger play --driver udp --listen :4000 --peer 192.168.1.20:4000
  frogger play --driver ws --listen :8080
  frogger play --driver ws --peer 192.168.1.20:8080
  frogger local
  frogger serve --ssh :2222
  frogger stats`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to history database (default ~/.frogger/frogger.db)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Path to log file (default ~/.frogger/frogger.log)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(localCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(driversCmd)
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagFPS != 0 {
		cfg.Game.TickRate = flagFPS
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if flagLogFile != "" {
		cfg.Log.File = flagLogFile
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, cfg.Validate()
}

// openLogger opens the log file named by cfg. The board owns the terminal,
// so nothing is logged to stdout or stderr while it runs.
func openLogger(cfg config.Config, prefix string) (*log.Logger, io.Closer, error) {
	level := log.InfoLevel
	if cfg.Log.Level != "" {
		lvl, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
		}
		level = lvl
	}

	path := cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	return logger, f, nil
}

// runtimeConfig sizes the screen from the controlling terminal.
func runtimeConfig(cfg config.Config) core.RuntimeConfig {
	rc := core.DefaultConfig()
	rc.TickRate = cfg.Game.TickRate
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		rc.ScreenW = w
		rc.ScreenH = h
	}
	return rc
}

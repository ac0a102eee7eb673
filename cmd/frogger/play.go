package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-frogger/internal/link"
	"github.com/vovakirdan/tui-frogger/internal/platform/tui"
	"github.com/vovakirdan/tui-frogger/internal/storage"
)

var (
	flagDriver string
	flagListen string
	flagPeer   string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play one board against a peer",
	Long: `Start one board linked to a peer board on another machine.

Both players run "frogger play" pointed at each other. Press up to get
ready; the round starts once both boards are ready.

Controls:
  Arrows/WASD  - Move (stick)
  I/J/K/L      - Move (buttons)
  Ctrl+S       - Save a screenshot
  Q/Ctrl+C     - Quit

Drivers:
  udp  - Datagrams between --listen and --peer
  ws   - Websocket; host with --listen, join with --peer

Examples:
  frogger play --driver udp --listen :4000 --peer 10.0.0.2:4000
  frogger play --driver ws --listen :8080
  frogger play --driver ws --peer 10.0.0.1:8080`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDriver, "driver", "", "Link driver: udp or ws (default from config)")
	playCmd.Flags().StringVar(&flagListen, "listen", "", "Local address to listen on")
	playCmd.Flags().StringVar(&flagPeer, "peer", "", "Address of the peer board")
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagDriver != "" {
		cfg.Link.Driver = flagDriver
	}
	if flagListen != "" {
		cfg.Link.Listen = flagListen
	}
	if flagPeer != "" {
		cfg.Link.Peer = flagPeer
	}
	if cfg.Link.Driver == "" {
		return fmt.Errorf("no link driver; pass --driver (see 'frogger drivers')")
	}

	logger, logFile, err := openLogger(cfg, "frogger")
	if err != nil {
		return err
	}
	defer logFile.Close()

	linkOpts := cfg.LinkOptions()
	linkOpts.Logger = logger.WithPrefix("link")
	conn, err := link.Open(cfg.Link.Driver, linkOpts)
	if err != nil {
		return err
	}
	defer conn.Close()
	logger.Info("link open", "driver", cfg.Link.Driver, "listen", cfg.Link.Listen, "peer", cfg.Link.Peer)

	opts := cfg.SessionOptions()
	opts.Logger = logger

	store, err := storage.Open(cfg.StoragePath())
	if err != nil {
		// Rounds are still playable without history.
		logger.Warn("could not open history database", "error", err)
	} else {
		defer store.Close()
		opts.Recorder = store.ForPeer(cfg.Link.Peer)
	}

	return tui.Run(conn, opts, runtimeConfig(cfg))
}

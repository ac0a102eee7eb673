package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-frogger/internal/platform/tui"
	"github.com/vovakirdan/tui-frogger/internal/storage"
)

var (
	flagPlain  bool
	flagLimit  int
	flagClear  bool
	flagPlayer string
	flagMatch  string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show round history and totals",
	Long: `Display round history and win/loss totals from the history database.

Tab switches between local rounds and SSH matches.

Examples:
  frogger stats
  frogger stats --plain --limit 20
  frogger stats --player alice
  frogger stats --match 3f9c2a1b
  frogger stats --clear`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print to stdout instead of the interactive table")
	statsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Rounds or matches to print")
	statsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete local round history")
	statsCmd.Flags().StringVar(&flagPlayer, "player", "", "Print SSH matches of a user or session")
	statsCmd.Flags().StringVar(&flagMatch, "match", "", "Print one SSH match by ID")
	statsCmd.MarkFlagsMutuallyExclusive("clear", "player", "match")
}

func runStats(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.StoragePath())
	if err != nil {
		return err
	}
	defer store.Close()

	switch {
	case flagClear:
		if err := store.ClearRounds(); err != nil {
			return err
		}
		fmt.Println("Round history cleared.")
		return nil
	case flagMatch != "":
		m, err := store.OnlineMatchByID(flagMatch)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("no match with ID %q", flagMatch)
		}
		printMatches([]storage.OnlineMatchResult{*m})
		return nil
	case flagPlayer != "":
		matches, err := store.PlayerMatchHistory(flagPlayer, flagLimit)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Printf("No SSH matches for %s.\n", flagPlayer)
			return nil
		}
		printMatches(matches)
		return nil
	}

	if !flagPlain {
		rc := runtimeConfig(cfg)
		return tui.RunStats(store, cfg.Game.TickRate, rc.ScreenW, rc.ScreenH)
	}

	stats, err := store.Stats()
	if err != nil {
		return err
	}
	fmt.Println("Round History")
	fmt.Println()
	fmt.Println(tui.FormatTotals(stats, cfg.Game.TickRate))

	rounds, err := store.RecentRounds(flagLimit)
	if err != nil {
		return err
	}
	if len(rounds) == 0 {
		fmt.Println()
		fmt.Println("Play 'frogger local' or 'frogger play' to record the first round!")
		return nil
	}

	fmt.Println()
	fmt.Printf("  %-5s  %-12s  %-8s  %-16s  %s\n", "#", "Result", "Time", "Opponent", "Date")
	fmt.Printf("  %-5s  %-12s  %-8s  %-16s  %s\n", "-", "------", "----", "--------", "----")
	for _, r := range rounds {
		secs := time.Duration(r.Ticks) * time.Second / time.Duration(max(1, cfg.Game.TickRate))
		peer := r.Peer
		if peer == "" {
			peer = "-"
		}
		fmt.Printf("  %-5d  %-12s  %-8s  %-16s  %s\n",
			r.ID, r.Outcome, secs.Round(100*time.Millisecond), peer, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func printMatches(matches []storage.OnlineMatchResult) {
	fmt.Printf("  %-10s  %-6s  %-24s  %-24s  %-5s  %-6s  %-8s  %s\n",
		"Match", "Code", "Player 1", "Player 2", "Score", "Rounds", "Time", "Ended")
	for _, m := range matches {
		fmt.Printf("  %-10s  %-6s  %-24s  %-24s  %-5s  %-6d  %-8s  %s\n",
			m.MatchID, m.Code, m.Player1Session, m.Player2Session,
			fmt.Sprintf("%d-%d", m.Wins1, m.Wins2), m.Rounds,
			time.Duration(m.Duration)*time.Second, m.EndReason)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/barkeep/internal/config"
	"github.com/verte-zerg/barkeep/internal/stats"
	"github.com/verte-zerg/barkeep/internal/statsui"
	"github.com/verte-zerg/barkeep/internal/store"
)

const defaultStatsWindow = 10

var (
	statsSince  string
	statsLast   int
	statsWindow int
	statsPlain  bool
	statsReset  bool
)

func newKeysStatsCmd() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show typing speed statistics",
		Args:  cobra.NoArgs,
		RunE:  runKeysStatsCmd,
	}
	statsCmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	statsCmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	statsCmd.Flags().IntVar(&statsWindow, "window", defaultStatsWindow, "moving average window")
	statsCmd.Flags().BoolVar(&statsPlain, "plain", false, "print the report instead of the interactive view")
	statsCmd.Flags().BoolVar(&statsReset, "reset", false, "delete all stored typing sessions")
	return statsCmd
}

func runKeysStatsCmd(cmd *cobra.Command, _ []string) error {
	log := newLogger()

	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Warn("failed to close db")
		}
	}()

	if statsReset {
		n, err := st.DeleteAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to reset sessions: %w", err)
		}
		_, werr := fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d typing sessions\n", n)
		return werr
	}

	filter := store.Filter{Since: sinceTime, Last: statsLast}

	if statsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		records, err := st.ListSessions(ctx, filter)
		if err != nil {
			return fmt.Errorf("failed to load sessions: %w", err)
		}
		return stats.RenderReport(cmd.OutOrStdout(), records, statsWindow)
	}

	model := statsui.NewModel(st, filter, statsWindow)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/config"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/history"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/historyui"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/model"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/store"
)

var (
	historyKind  string
	historySince string
	historyLast  int
	historyPlain bool
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show transmission history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyKind, "kind", "", "kind filter (text, repeat, group, memory)")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N transmissions")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print plain text instead of the interactive viewer")
	return cmd
}

func parseHistoryConfig(kind, since string, last int) (model.HistoryConfig, error) {
	cfg := model.HistoryConfig{Kind: model.Kind(kind), Last: last}
	switch cfg.Kind {
	case "", model.KindText, model.KindRepeat, model.KindGroup, model.KindMemory:
	default:
		return model.HistoryConfig{}, fmt.Errorf("--kind must be one of text, repeat, group, memory")
	}
	if last < 0 {
		return model.HistoryConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.HistoryConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	return cfg, nil
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := parseHistoryConfig(historyKind, historySince, historyLast)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	if historyPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		report, err := history.BuildReport(ctx, st, cfg)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		return history.RenderPlain(cmd.OutOrStdout(), report, time.Now())
	}

	load := func(c model.HistoryConfig) (history.Report, error) {
		return history.BuildReport(ctx, st, c)
	}
	program := tea.NewProgram(historyui.NewModel(load, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history viewer: %w", err)
	}
	return nil
}

package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/islamictechbd/ramadan-times/internal/tui"
)

func newCountdownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "countdown",
		Short: "Live sehri/iftar countdown",
		Long:  "Open a full-screen live countdown to the next fast boundary,\nwith the six-slot prayer timeline and the current waqt highlighted.",
		RunE:  runCountdown,
	}
}

func runCountdown(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	store, err := buildStore(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(store, cfg.TimeFormat), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("countdown UI failed: %w", err)
	}
	return nil
}

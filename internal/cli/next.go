package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/islamictechbd/ramadan-times/internal/timing"
)

var flagFormat string

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Print the next fast boundary",
		Long:  "Print the next sehri/iftar boundary in a single line, suited for\nstatus bars. Supports fixed formats or a custom Go template.",
		RunE:  runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", timing.FormatFull,
		"Display format: remaining, target-time, label-and-time, label-and-remaining, full, or a custom Go template (e.g. '{{.Label}} in {{.Remaining}}'). Template fields: .Label, .Phase, .Target, .Remaining, .Hours, .Minutes")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	_, result, err := resolveTimings(cfg)
	if err != nil {
		return err
	}

	loc, err := result.Location()
	if err != nil {
		return err
	}
	now := time.Now().In(loc)

	ev, err := timing.NextEvent(result, now)
	if err != nil {
		return err
	}

	fmt.Print(timing.FormatEventIn(ev, flagFormat, cfg.TimeFormat))
	return nil
}

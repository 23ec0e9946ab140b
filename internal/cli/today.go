package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/islamictechbd/ramadan-times/internal/display"
	"github.com/islamictechbd/ramadan-times/internal/timing"
)

func newTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's prayer schedule",
		Long:  "Display today's six prayer times with the active waqt highlighted,\nplus the sehri/iftar fast boundaries and the Hijri date.",
		RunE:  runToday,
	}
}

func runToday(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	_, result, err := resolveTimings(cfg)
	if err != nil {
		if errors.Is(err, timing.ErrUnavailable) {
			fmt.Fprintln(os.Stderr, display.Red("Prayer timings unavailable for this location."))
		}
		return err
	}

	loc, err := result.Location()
	if err != nil {
		return err
	}
	now := time.Now().In(loc)

	if FlagJSON {
		return printTodayJSON(result, now)
	}
	return printTodayRich(result, now, cfg.TimeFormat)
}

func printTodayJSON(result *timing.Result, now time.Time) error {
	ev, err := timing.NextEvent(result, now)
	if err != nil {
		return err
	}
	out := struct {
		*timing.Result
		Date      string `json:"date"`
		NextEvent string `json:"nextEvent"`
		Remaining string `json:"remaining"`
	}{
		Result:    result,
		Date:      now.Format("2006-01-02"),
		NextEvent: ev.Label,
		Remaining: timing.FormatRemaining(ev.Remaining),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printTodayRich(result *timing.Result, now time.Time, timeFormat string) error {
	slots, err := result.Slots(now)
	if err != nil {
		return err
	}
	active, hasActive, err := timing.ActiveSlot(result, now)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  %s  %s\n", display.Bold(now.Format("Monday, 2 January 2006")), display.Dim(result.HijriDate))
	fmt.Printf("  %s\n\n", display.Dim(result.Timezone))

	table := display.NewTable([]string{"Prayer", "Time", ""})
	for i, s := range slots {
		marker := ""
		if hasActive && s.Slot == active {
			marker = "now"
		}
		if !s.Slot.Actionable() {
			marker = display.Dim(marker)
		}
		table.AddRow([]string{s.Slot.String(), timing.FormatClock(s.Time, timeFormat), marker})
		if hasActive && s.Slot == active {
			table.SetHighlightRow(i)
		}
	}
	fmt.Print(table.Render())

	ev, err := timing.NextEvent(result, now)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("  Sehri ends %s   Iftar starts %s   Next Sehri %s\n",
		display.Bold(timing.ReformatClock(result.Sehri, timeFormat)),
		display.Bold(timing.ReformatClock(result.Iftar, timeFormat)),
		display.Bold(timing.ReformatClock(result.NextSehri, timeFormat)))
	fmt.Printf("  %s in %s\n\n", display.Green(ev.Label), display.Bold(timing.FormatRemaining(ev.Remaining)))
	return nil
}

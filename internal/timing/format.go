package timing

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Format constants for one-shot event output (status bars).
const (
	FormatRemainingOnly  = "remaining"
	FormatTargetTime     = "target-time"
	FormatLabelAndTime   = "label-and-time"
	FormatLabelRemaining = "label-and-remaining"
	FormatFull           = "full"
)

// EventFormatData is the data passed to custom Go templates.
type EventFormatData struct {
	Label     string // e.g. "Iftar starts"
	Phase     string // e.g. "fasting"
	Target    string // formatted target clock time, e.g. "06:12 PM"
	Remaining string // e.g. "13h 12m 00s"
	Hours     int    // whole hours remaining
	Minutes   int    // remaining minutes after hours
}

// FormatEvent renders an Event for display according to the chosen mode,
// with the target clock in 12-hour form.
//
// If mode contains "{{", it is treated as a custom Go template string.
// Available fields: .Label, .Phase, .Target, .Remaining, .Hours, .Minutes
//
// Example: "{{.Label}} in {{.Remaining}}" -> "Iftar starts in 13h 12m 00s"
func FormatEvent(ev Event, mode string) string {
	return FormatEventIn(ev, mode, "")
}

// FormatEventIn is FormatEvent with the target clock rendered in the given
// display format ("24h" or 12-hour otherwise).
func FormatEventIn(ev Event, mode, timeFormat string) string {
	target := FormatClock(ev.Target, timeFormat)
	remaining := FormatRemaining(ev.Remaining)

	if strings.Contains(mode, "{{") {
		return formatCustom(mode, EventFormatData{
			Label:     ev.Label,
			Phase:     ev.Phase.String(),
			Target:    target,
			Remaining: remaining,
			Hours:     int(ev.Remaining.Hours()),
			Minutes:   int(ev.Remaining.Minutes()) % 60,
		})
	}

	switch mode {
	case FormatRemainingOnly:
		return remaining
	case FormatTargetTime:
		return target
	case FormatLabelAndTime:
		return fmt.Sprintf("%s %s", ev.Label, target)
	case FormatLabelRemaining:
		return fmt.Sprintf("%s %s", ev.Label, remaining)
	case FormatFull:
		return fmt.Sprintf("%s %s (%s)", ev.Label, target, remaining)
	default:
		return fmt.Sprintf("%s %s", ev.Label, target)
	}
}

// formatCustom executes a user-provided Go template string.
func formatCustom(tmpl string, data EventFormatData) string {
	t, err := template.New("custom").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	return buf.String()
}

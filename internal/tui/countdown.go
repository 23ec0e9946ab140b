// Package tui renders the live sehri/iftar countdown: the current civil
// clock in the result timezone, the next fast boundary with its remaining
// duration, and the six-slot timeline with the active waqt highlighted.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/islamictechbd/ramadan-times/internal/settings"
	"github.com/islamictechbd/ramadan-times/internal/timing"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(1, 2).
			Align(lipgloss.Center)

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 1)

	countdownStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Align(lipgloss.Center)

	slotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	activeSlotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Bold(true).
			Padding(0, 1)

	faintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true).
			Padding(1, 2)
)

// Model is the bubbletea model for the countdown screen. It moves between
// three states: resolving (spinner), ticking (clock running), and
// unavailable (fatal provider failure).
type Model struct {
	store      *settings.Store
	clock      *timing.CountdownClock
	timeFormat string

	spin  spinner.Model
	state *timing.CountdownState
	err   error

	width  int
	height int
}

// NewModel builds the countdown model around a settings store whose
// coordinates are already set. timeFormat is the configured time_format
// value ("24h" or 12-hour otherwise).
func NewModel(store *settings.Store, timeFormat string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{store: store, timeFormat: timeFormat, spin: s}
}

type resolvedMsg struct {
	result *timing.Result
	err    error
}

type stateMsg timing.CountdownState

type clockDoneMsg struct{}

func (m Model) resolveCmd() tea.Cmd {
	return func() tea.Msg {
		result, err := m.store.Resolve(context.Background())
		return resolvedMsg{result: result, err: err}
	}
}

// waitForState blocks on the clock's state channel until the next tick.
func waitForState(c *timing.CountdownClock) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-c.States()
		if !ok {
			return clockDoneMsg{}
		}
		return stateMsg(state)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.resolveCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.clock != nil {
				m.clock.Stop()
			}
			return m, tea.Quit
		}
		return m, nil

	case resolvedMsg:
		if msg.err != nil {
			// A superseded resolution means a newer one is on its way;
			// keep spinning. Anything else is final.
			if errors.Is(msg.err, settings.ErrSuperseded) {
				return m, m.resolveCmd()
			}
			m.err = msg.err
			return m, nil
		}
		clock, err := timing.NewCountdownClock(msg.result)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.clock = clock
		m.clock.Start()
		return m, waitForState(m.clock)

	case stateMsg:
		state := timing.CountdownState(msg)
		m.state = &state
		return m, waitForState(m.clock)

	case clockDoneMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	var content string
	switch {
	case m.err != nil:
		content = errStyle.Render("Prayer timings unavailable") + "\n" +
			faintStyle.Render(fmt.Sprintf("  %v", m.err)) + "\n" +
			faintStyle.Render("  press q to quit")
	case m.state == nil:
		content = fmt.Sprintf("\n  %s Resolving prayer times…\n", m.spin.View())
	default:
		content = m.viewTicking()
	}

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

func (m Model) viewTicking() string {
	st := m.state
	result := m.store.Result()

	clockLayout := "03:04:05 PM"
	if m.timeFormat == timing.TimeFormat24 {
		clockLayout = "15:04:05"
	}
	header := lipgloss.JoinVertical(lipgloss.Center,
		labelStyle.Render(st.Event.Label),
		countdownStyle.Render(st.Remaining),
		clockStyle.Render(st.Now.Format(clockLayout)+"  ·  "+st.Now.Format("Monday, 2 January 2006")),
	)

	parts := []string{header}
	if result != nil {
		parts = append(parts,
			faintStyle.Render(result.HijriDate),
			m.viewTimeline(result, st),
			faintStyle.Render("Sehri "+timing.ReformatClock(result.Sehri, m.timeFormat)+
				"   Iftar "+timing.ReformatClock(result.Iftar, m.timeFormat)+
				"   Next Sehri "+timing.ReformatClock(result.NextSehri, m.timeFormat)),
		)
	}
	parts = append(parts, faintStyle.Render("q: quit"))

	return lipgloss.JoinVertical(lipgloss.Center, parts...)
}

// viewTimeline renders the six slots in a row with the active one
// highlighted.
func (m Model) viewTimeline(result *timing.Result, st *timing.CountdownState) string {
	slots, err := result.Slots(st.Now)
	if err != nil {
		return ""
	}
	cells := make([]string, 0, len(slots))
	for _, s := range slots {
		cell := s.Slot.String() + " " + timing.FormatClock(s.Time, m.timeFormat)
		if st.HasActive && s.Slot == st.Active {
			cells = append(cells, activeSlotStyle.Render(cell))
		} else {
			cells = append(cells, slotStyle.Render(cell))
		}
	}
	return strings.Join(cells, " ")
}

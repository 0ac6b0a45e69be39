package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/GMouaad/waqt/internal/model"
	"github.com/GMouaad/waqt/internal/notify"
	"github.com/GMouaad/waqt/internal/report"
	"github.com/GMouaad/waqt/internal/timer"
	"github.com/GMouaad/waqt/internal/ui/theme"
)

// WatchModel is the live timer screen. It polls the persisted timer state
// every second, so a timer started from another terminal or over the API
// shows up here too.
type WatchModel struct {
	svc      *timer.Service
	engine   *report.Engine
	notifier *notify.Notifier
	keys     KeyMap
	help     help.Model
	width    int
	height   int

	status    *timer.Status
	standards report.Standards
	today     *report.DaySummary

	// Alert bookkeeping, keyed by entry id so a dismissal holds until a
	// new session trips the alert again
	dismissedEntry string
	notifiedEntry  string

	statusMsg string
	errorMsg  string
}

// NewWatchModel creates a new watch model
func NewWatchModel(svc *timer.Service, engine *report.Engine, notifier *notify.Notifier) WatchModel {
	h := help.New()
	h.ShowAll = false

	return WatchModel{
		svc:       svc,
		engine:    engine,
		notifier:  notifier,
		keys:      DefaultKeyMap(),
		help:      h,
		standards: report.DefaultStandards(),
	}
}

// Run opens the watch screen and blocks until the user quits
func Run(svc *timer.Service, engine *report.Engine, notifier *notify.Notifier) error {
	p := tea.NewProgram(NewWatchModel(svc, engine, notifier), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init initializes the model
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.refresh(), watchTick())
}

// watchTick sends tick messages every second
func watchTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{}
	})
}

// refresh reloads the timer snapshot and the day so far
func (m WatchModel) refresh() tea.Cmd {
	return func() tea.Msg {
		st, err := m.svc.Status()
		if err != nil {
			return ErrorMsg{Err: err}
		}
		std, err := m.engine.Standards()
		if err != nil {
			return ErrorMsg{Err: err}
		}
		today, err := m.engine.DayOf(time.Now())
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return statusLoadedMsg{status: st, standards: std, today: today}
	}
}

// timerAction runs a timer transition and reports the outcome
func (m WatchModel) timerAction(verb string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return ErrorMsg{Err: err}
		}
		return actionDoneMsg{verb: verb}
	}
}

// Update handles messages
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refresh(), watchTick())

	case statusLoadedMsg:
		m.status = msg.status
		m.standards = msg.standards
		m.today = msg.today

		// Desktop notification once per entry when the session cap is hit
		if m.alertActive() && m.notifiedEntry != m.status.EntryID {
			m.notifiedEntry = m.status.EntryID
			if m.notifier != nil {
				m.notifier.SendSessionAlert(m.elapsedHours(), m.standards.MaxSessionHours)
			}
		}
		return m, nil

	case actionDoneMsg:
		m.statusMsg = fmt.Sprintf("Timer %s", msg.verb)
		return m, m.refresh()

	case stoppedMsg:
		m.statusMsg = fmt.Sprintf("Timer stopped, recorded %s", report.FormatHours(msg.hours))
		if m.notifier != nil {
			m.notifier.SendTimerStopped(msg.hours)
		}
		return m, m.refresh()

	case ErrorMsg:
		m.errorMsg = msg.Err.Error()
		return m, nil

	case StatusMsg:
		m.statusMsg = msg.Message
		return m, nil

	case ThemeChangedMsg:
		m.statusMsg = fmt.Sprintf("Theme: %s", msg.ThemeName)
		return m, nil

	case tea.KeyMsg:
		// Clear status/error on any keypress
		m.statusMsg = ""
		m.errorMsg = ""

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.ThemeCycle):
			m.cycleTheme()
			return m, nil

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keys.Start):
			return m, m.timerAction("started", func() error {
				_, err := m.svc.Start("")
				return err
			})

		case key.Matches(msg, m.keys.Pause):
			return m, m.timerAction("paused", func() error {
				_, err := m.svc.Pause()
				return err
			})

		case key.Matches(msg, m.keys.Resume):
			return m, m.timerAction("resumed", func() error {
				_, err := m.svc.Resume()
				return err
			})

		case key.Matches(msg, m.keys.Stop):
			return m, func() tea.Msg {
				entry, err := m.svc.Stop()
				if err != nil {
					return ErrorMsg{Err: err}
				}
				return stoppedMsg{hours: entry.DurationHours}
			}

		case key.Matches(msg, m.keys.Dismiss):
			if m.alertActive() {
				m.dismissedEntry = m.status.EntryID
				m.statusMsg = "Alert dismissed"
			}
			return m, nil
		}
	}

	return m, nil
}

// elapsedHours converts the current snapshot to hours
func (m WatchModel) elapsedHours() float64 {
	if m.status == nil {
		return 0
	}
	return float64(m.status.ElapsedSeconds) / 3600
}

// alertActive reports whether the running session passed the configured cap
func (m WatchModel) alertActive() bool {
	if m.status == nil || m.status.State == model.TimerIdle {
		return false
	}
	return report.SessionAlert(m.elapsedHours(), m.standards.MaxSessionHours)
}

// View renders the UI
func (m WatchModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, "")
	sections = append(sections, m.renderTimer())

	if m.status != nil && m.status.Description != "" {
		sections = append(sections, theme.Current.Styles.Subtitle.Render(
			fmt.Sprintf("Working on: %s", m.status.Description)))
	}

	if m.today != nil {
		sections = append(sections, m.renderToday())
	}

	if m.alertActive() && m.status.EntryID != m.dismissedEntry {
		sections = append(sections, theme.Current.Styles.Alert.Render(
			fmt.Sprintf("Session over %s (limit %s). Press d to dismiss.",
				report.FormatHours(m.elapsedHours()),
				report.FormatHours(m.standards.MaxSessionHours))))
	}

	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderHeader renders the header bar
func (m WatchModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("waqt")

	infoStyle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)
	left := lipgloss.JoinHorizontal(lipgloss.Center, title, infoStyle.Render("[watch]"))
	right := infoStyle.Render(fmt.Sprintf("theme: %s", t.Name))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return left + strings.Repeat(" ", gap) + right
}

// renderTimer renders the clock panel
func (m WatchModel) renderTimer() string {
	t := theme.Current.Theme

	state := model.TimerIdle
	var elapsed time.Duration
	if m.status != nil {
		state = m.status.State
		elapsed = time.Duration(m.status.ElapsedSeconds) * time.Second
	}

	// Color and label based on state
	var color lipgloss.Color
	var stateLabel string
	switch state {
	case model.TimerRunning:
		color = t.StateRunning
		stateLabel = "RUNNING"
	case model.TimerPaused:
		color = t.StatePaused
		stateLabel = "PAUSED"
	default:
		color = t.StateIdle
		stateLabel = "IDLE"
	}

	labelStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(color)

	clockStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(color).
		Padding(1, 4).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color)

	// Progress toward the standard working day
	progress := 0.0
	if m.standards.HoursPerDay > 0 {
		progress = elapsed.Hours() / m.standards.HoursPerDay
	}
	if progress > 1 {
		progress = 1
	}
	barWidth := 30
	filled := int(progress * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	return lipgloss.JoinVertical(lipgloss.Center,
		labelStyle.Render(stateLabel),
		clockStyle.Render(report.FormatClock(elapsed)),
		lipgloss.NewStyle().Foreground(color).Render(bar),
	)
}

// renderToday renders the running total for the day
func (m WatchModel) renderToday() string {
	styles := theme.Current.Styles

	line := fmt.Sprintf("Today: %s of %s",
		report.FormatHours(m.today.Hours),
		report.FormatHours(m.standards.HoursPerDay))
	if m.today.Overtime > 0 {
		line += fmt.Sprintf(" (+%s overtime)", report.FormatHours(m.today.Overtime))
	}

	return styles.Label.Render(line)
}

// renderFooter renders the status line and key hints
func (m WatchModel) renderFooter() string {
	t := theme.Current.Theme

	var lines []string
	lines = append(lines, "")

	if m.errorMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Error).Render(m.errorMsg))
	} else if m.statusMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg))
	}

	lines = append(lines, m.help.View(m.keys))

	return strings.Join(lines, "\n")
}

// cycleTheme cycles through available themes
func (m *WatchModel) cycleTheme() {
	themes := theme.Available()
	current := theme.Current.Theme.Name

	for i, t := range themes {
		if t.Name == current {
			next := themes[(i+1)%len(themes)]
			theme.SetTheme(next)
			m.statusMsg = fmt.Sprintf("Theme: %s", next.Name)
			return
		}
	}
}

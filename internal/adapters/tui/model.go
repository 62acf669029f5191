// Package tui renders the popup: a bubbletea view of the daemon's timer with
// keys for start, stop, reset and greyscale.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/ports"
)

const (
	pollInterval   = time.Second
	requestTimeout = 3 * time.Second
)

var (
	colorFocus = lipgloss.Color("#E06C75")
	colorBreak = lipgloss.Color("#4ECDC4")
	colorIdle  = lipgloss.Color("#A0A0A0")
	colorTitle = lipgloss.Color("#7C6FE0")
	colorHelp  = lipgloss.Color("#626262")
)

type tickMsg time.Time

type stateMsg struct {
	state *domain.TimerState
}

type actionMsg struct {
	action domain.Action
	resp   domain.Response
}

// Option configures a Model.
type Option func(*Model)

// WithGreyscale seeds the greyscale flag shown in the popup.
func WithGreyscale(enabled bool) Option {
	return func(m *Model) { m.greyscale = enabled }
}

// WithContext sets the context used for daemon requests.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// Model is the popup's bubbletea model.
type Model struct {
	ctx       context.Context
	handler   ports.MessageHandler
	state     domain.TimerState
	loaded    bool
	offline   bool
	greyscale bool
	notice    string
	progress  progress.Model
	width     int
	height    int
}

// NewModel creates a popup model backed by handler.
func NewModel(handler ports.MessageHandler, opts ...Option) Model {
	m := Model{
		ctx:      context.Background(),
		handler:  handler,
		state:    domain.NewTimerState(),
		progress: progress.New(progress.WithGradient(string(colorFocus), string(colorTitle))),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) fetchStateCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, requestTimeout)
		defer cancel()
		resp := m.handler.Handle(ctx, domain.Message{Action: domain.ActionGetTimerState})
		return stateMsg{state: resp.State}
	}
}

func (m Model) sendCmd(msg domain.Message) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, requestTimeout)
		defer cancel()
		return actionMsg{action: msg.Action, resp: m.handler.Handle(ctx, msg)}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchStateCmd(), tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = clampWidth(msg.Width - 10)
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetchStateCmd(), tickCmd())

	case stateMsg:
		if msg.state == nil {
			m.offline = true
			return m, nil
		}
		m.offline = false
		m.loaded = true
		m.state = *msg.state
		return m, nil

	case actionMsg:
		m.notice = describeResult(msg.action, msg.resp)
		if msg.action == domain.ActionToggleGreyscale && msg.resp.Success {
			m.greyscale = !m.greyscale
		}
		if msg.action == domain.ActionResetTimer && msg.resp.TimeRemaining != nil {
			m.state.TimeRemaining = *msg.resp.TimeRemaining
		}
		return m, m.fetchStateCmd()

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		if p, ok := pm.(progress.Model); ok {
			m.progress = p
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "s", " ", "space":
		return m, m.sendCmd(domain.Message{Action: domain.ActionStartTimer})
	case "p", "x":
		return m, m.sendCmd(domain.Message{Action: domain.ActionStopTimer})
	case "r":
		return m, m.sendCmd(domain.Message{Action: domain.ActionResetTimer})
	case "g":
		return m, m.sendCmd(domain.Message{Action: domain.ActionToggleGreyscale, Enabled: !m.greyscale})
	}
	return m, nil
}

func describeResult(action domain.Action, resp domain.Response) string {
	if !resp.Success {
		switch action {
		case domain.ActionStartTimer:
			return "Timer is already running"
		case domain.ActionStopTimer:
			return "Timer is not running"
		default:
			return "Daemon did not accept " + string(action)
		}
	}
	switch action {
	case domain.ActionStartTimer:
		return "Focus started"
	case domain.ActionStopTimer:
		return "Timer stopped"
	case domain.ActionResetTimer:
		return "Timer reset"
	case domain.ActionToggleGreyscale:
		return "Greyscale toggled"
	}
	return ""
}

func phaseColor(p domain.Phase) lipgloss.Color {
	switch p {
	case domain.PhaseFocusing:
		return colorFocus
	case domain.PhaseOnBreak:
		return colorBreak
	default:
		return colorIdle
	}
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(colorTitle).MarginBottom(1)
	helpStyle := lipgloss.NewStyle().Foreground(colorHelp)

	sections := []string{titleStyle.Render("🛡️ FocusGuard")}

	if m.offline && !m.loaded {
		sections = append(sections,
			lipgloss.NewStyle().Foreground(colorFocus).Render("Daemon unreachable. Run `focusguard daemon`."),
			"",
			helpStyle.Render("[q]uit"))
		return m.place(sections)
	}

	phase := m.state.Phase()
	color := phaseColor(phase)
	sections = append(sections,
		lipgloss.NewStyle().Foreground(color).Render(phaseLine(m.state)),
		"",
		renderClock(formatSeconds(m.state.TimeRemaining), color, m.width),
		"",
		m.progress.ViewAs(m.state.Progress()),
		"",
		helpStyle.Render(statusLine(m.state, m.greyscale)),
	)
	if m.offline {
		sections = append(sections, helpStyle.Render("connection lost, retrying..."))
	}
	if m.notice != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(color).Render(m.notice))
	}
	sections = append(sections, "", helpStyle.Render(helpLine(m.state)))
	return m.place(sections)
}

func (m Model) place(sections []string) string {
	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	if m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func phaseLine(s domain.TimerState) string {
	switch s.Phase() {
	case domain.PhaseFocusing:
		return "🎯 Focus time"
	case domain.PhaseOnBreak:
		return "☕ Break time"
	}
	if s.IsBreak {
		return "Break paused"
	}
	if s.TimeRemaining < s.FocusDuration {
		return "Focus paused"
	}
	return "Ready to focus"
}

func statusLine(s domain.TimerState, greyscale bool) string {
	blocking := "off"
	if s.BlockingActive() {
		blocking = "on"
	}
	grey := "off"
	if greyscale {
		grey = "on"
	}
	return fmt.Sprintf("Blocking: %s · Greyscale: %s · %d/%d min",
		blocking, grey, s.FocusDuration/60, s.BreakDuration/60)
}

func helpLine(s domain.TimerState) string {
	keys := []string{"[s]tart"}
	if s.IsRunning {
		keys = []string{"[p]ause"}
	}
	keys = append(keys, "[r]eset", "[g]reyscale", "[q]uit")
	return strings.Join(keys, "  ")
}

// formatSeconds renders a second count as mm:ss. Negative values clamp to zero.
func formatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func clampWidth(w int) int {
	switch {
	case w < 10:
		return 10
	case w > 60:
		return 60
	}
	return w
}

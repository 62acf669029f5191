package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/ports"
)

// Run shows the popup until the user quits or ctx is cancelled. Without a
// terminal on stdout it prints a one-shot status instead.
func Run(ctx context.Context, handler ports.MessageHandler, greyscale bool) error {
	if !term.IsTerminal(os.Stdout.Fd()) {
		resp := handler.Handle(ctx, domain.Message{Action: domain.ActionGetTimerState})
		if resp.State == nil {
			return fmt.Errorf("daemon unreachable")
		}
		return PrintStatus(os.Stdout, *resp.State, greyscale)
	}

	model := NewModel(handler, WithContext(ctx), WithGreyscale(greyscale))
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run popup: %w", err)
	}
	return nil
}

// terminalWidth returns the width of stdout, defaulting to 80.
func terminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w < 20 {
		return 80
	}
	return w
}

// RenderStatus renders a compact status block for non-interactive output.
func RenderStatus(s domain.TimerState, greyscale bool, width int) string {
	color := phaseColor(s.Phase())
	phaseStyle := lipgloss.NewStyle().Bold(true).Foreground(color)
	helpStyle := lipgloss.NewStyle().Foreground(colorHelp)

	lines := []string{
		phaseStyle.Render(fmt.Sprintf("%s  %s", phaseLine(s), formatSeconds(s.TimeRemaining))),
		progressBar(s.Progress(), clampWidth(width-10)),
		helpStyle.Render(statusLine(s, greyscale)),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// PrintStatus writes RenderStatus sized to the current terminal.
func PrintStatus(w io.Writer, s domain.TimerState, greyscale bool) error {
	_, err := fmt.Fprintln(w, RenderStatus(s, greyscale, terminalWidth()))
	return err
}

func progressBar(p float64, width int) string {
	filled := int(p * float64(width))
	bar := make([]rune, width)
	for i := range bar {
		if i < filled {
			bar[i] = '█'
		} else {
			bar[i] = '░'
		}
	}
	return fmt.Sprintf("%s %3.0f%%", string(bar), p*100)
}

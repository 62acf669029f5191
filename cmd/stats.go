package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/logfields"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage statistics",
	Long:  `Display completed pomodoros, total focus time, blocked attempts and the daily streak.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeServices(); err != nil {
			return err
		}
		return openStore(cmd.Context())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStats(cmd)
	},
}

var statsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show usage statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStats(cmd)
	},
}

var statsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all statistics",
	Long:  `Zero every counter and the streak. Settings and the blocklist are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.stats.Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "🧹 Statistics reset.")
		return nil
	},
}

var statsFollowCmd = &cobra.Command{
	Use:   "follow",
	Short: "Print statistics every time they change",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := setupSignalHandler(cmd.Context())
		defer stop()

		if err := showStats(cmd); err != nil {
			return err
		}
		err := app.client.Subscribe(ctx, func(ev domain.Event) {
			if ev.Action != domain.ActionStatsUpdated {
				return
			}
			fmt.Fprintln(cmd.OutOrStdout())
			if err := showStats(cmd); err != nil {
				app.log.Warn("Failed to read stats", logfields.Error(err))
			}
		})
		if err != nil && ctx.Err() == nil {
			return daemonError(err)
		}
		return nil
	},
}

func init() {
	statsCmd.AddCommand(statsShowCmd, statsResetCmd, statsFollowCmd)
	rootCmd.AddCommand(statsCmd)
}

func showStats(cmd *cobra.Command) error {
	stats, err := app.stats.Load(cmd.Context())
	if err != nil {
		return err
	}
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	renderStats(cmd.OutOrStdout(), stats, language.English)
	return nil
}

// renderStats prints the dashboard with numbers grouped for tag.
func renderStats(w io.Writer, stats domain.Stats, tag language.Tag) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C6FE0"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A78BFA"))
	p := message.NewPrinter(tag)

	fmt.Fprintf(w, "  %s\n", titleStyle.Render("🛡️ FocusGuard statistics"))
	fmt.Fprintf(w, "  %s\n", dimStyle.Render(strings.Repeat("─", 32)))

	rows := []struct {
		label string
		value string
	}{
		{"Pomodoros", p.Sprintf("%d", stats.CompletedPomodoros)},
		{"Focus time", formatFocusTime(p, stats.FocusTime)},
		{"Blocked", p.Sprintf("%d attempts", stats.BlockedAttempts)},
		{"Streak", streakLabel(p, stats.Streak)},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %s %s\n", dimStyle.Render(fmt.Sprintf("%-11s", r.label)), valueStyle.Render(r.value))
	}
	if stats.LastActiveDate != "" {
		fmt.Fprintf(w, "  %s %s\n", dimStyle.Render(fmt.Sprintf("%-11s", "Last active")), stats.LastActiveDate)
	}
}

// formatFocusTime renders minutes as "1,234h 5m" style text.
func formatFocusTime(p *message.Printer, minutes int) string {
	h, m := minutes/60, minutes%60
	if h == 0 {
		return p.Sprintf("%dm", m)
	}
	return p.Sprintf("%dh %dm", h, m)
}

func streakLabel(p *message.Printer, days int) string {
	if days == 1 {
		return "1 day"
	}
	return p.Sprintf("%d days", days)
}

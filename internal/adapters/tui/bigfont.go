package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const glyphHeight = 5

// glyphs holds a 3x5 block font for the clock. Rows are separated by '/'
// and '#' marks a filled cell.
var glyphs = map[rune]string{
	'0': "###/# #/# #/# #/###",
	'1': " # /## / # / # /###",
	'2': "###/  #/###/#  /###",
	'3': "###/  #/ ##/  #/###",
	'4': "# #/# #/###/  #/  #",
	'5': "###/#  /###/  #/###",
	'6': "###/#  /###/# #/###",
	'7': "###/  #/ # / # / # ",
	'8': "###/# #/###/# #/###",
	'9': "###/# #/###/  #/###",
	':': " / #/ / #/ ",
}

// minBigClockWidth is the narrowest terminal the block clock is drawn in.
const minBigClockWidth = 30

// renderClock draws a "mm:ss" string in the block font, or as a single bold
// line when the terminal is too narrow.
func renderClock(clock string, color lipgloss.Color, width int) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(color)
	if width < minBigClockWidth {
		return style.Render(clock)
	}

	var rows [glyphHeight]strings.Builder
	for i, ch := range clock {
		glyph, ok := glyphs[ch]
		if !ok {
			continue
		}
		parts := strings.Split(glyph, "/")
		for r := 0; r < glyphHeight; r++ {
			if i > 0 {
				rows[r].WriteByte(' ')
			}
			if r < len(parts) {
				rows[r].WriteString(strings.ReplaceAll(parts[r], "#", "█"))
			}
		}
	}

	lines := make([]string, glyphHeight)
	for r := range rows {
		lines[r] = style.Render(rows[r].String())
	}
	return strings.Join(lines, "\n")
}

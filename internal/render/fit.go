package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Fit truncates each line of block to width visual columns, ending cut lines
// with "...". Escape sequences and wide characters are measured correctly.
func Fit(block string, width int) string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		lines[i] = truncate(line, width)
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, width int) string {
	if width <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	// ansi.Truncate counts the tail towards width.
	return ansi.Truncate(s, width, "...")
}

package help

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// displayWidth returns the terminal columns s occupies. Escape sequences
// take no room; grapheme clusters are measured as rendered, so wide runes
// count two and combining marks count zero.
func displayWidth(s string) int {
	return lipgloss.Width(s)
}

// wrap breaks text into lines of at most limit columns. The first line
// starts at column start; continuation lines are indented by indent spaces.
// Words longer than a line are kept whole. Explicit newlines start a new
// paragraph at indent.
func wrap(text string, limit, start, indent int) string {
	var b strings.Builder
	pad := strings.Repeat(" ", indent)
	for i, para := range strings.Split(text, "\n") {
		col := start
		if i > 0 {
			b.WriteByte('\n')
			b.WriteString(pad)
			col = indent
		}
		lineStart := true
		for _, word := range strings.Fields(para) {
			w := displayWidth(word)
			switch {
			case lineStart:
			case col+1+w > limit:
				b.WriteByte('\n')
				b.WriteString(pad)
				col = indent
			default:
				b.WriteByte(' ')
				col++
			}
			b.WriteString(word)
			col += w
			lineStart = false
		}
	}
	return b.String()
}

package optio

import (
	"github.com/fatih/color"
)

// Style is a set of fatih/color attributes.
type Style []color.Attribute

// Theme provides semantic colors
type Theme struct {
	Primary, Success, Warning, Error, Info, Debug, Muted Style
	Heading, Flag, Placeholder                           Style
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	return Theme{
		Primary:     Style{color.FgHiBlue},
		Success:     Style{color.FgHiGreen},
		Warning:     Style{color.FgHiYellow},
		Error:       Style{color.FgHiRed},
		Info:        Style{color.FgHiCyan},
		Debug:       Style{color.FgHiMagenta},
		Muted:       Style{color.FgHiBlack},
		Heading:     Style{color.Bold},
		Flag:        Style{color.FgCyan},
		Placeholder: Style{color.Italic},
	}
}

// Sprint renders text in style s when the manager supports color.
func (m *IOManager) Sprint(s Style, text string) string {
	if len(s) == 0 || text == "" {
		return text
	}
	c := color.New(s...)
	if m.SupportsColor() {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(text)
}

// Bold returns text in bold when color is supported.
func (m *IOManager) Bold(text string) string { return m.Sprint(Style{color.Bold}, text) }

// Faint returns text in faint intensity when color is supported.
func (m *IOManager) Faint(text string) string { return m.Sprint(Style{color.Faint}, text) }

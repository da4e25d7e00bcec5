package report

import (
	"github.com/charmbracelet/glamour"
)

// Terminal renders markdown for a terminal of the given width. Plain selects the
// no-colour style for output that is not a TTY.
func Terminal(md string, width int, plain bool) (string, error) {
	style := "dark"
	if plain {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

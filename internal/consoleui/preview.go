package consoleui

import (
	glamour "charm.land/glamour/v2"
)

// RenderMarkdown renders a generated table/domain artifact for terminal
// display (`schemadoc preview`), grounded on the codenerd chat pane's own
// glamour.NewTermRenderer(WithAutoStyle, WithWordWrap) construction.
func RenderMarkdown(markdown string) (string, error) {
	width := terminalWidth()
	if width > 8 {
		width -= 8
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(markdown)
}

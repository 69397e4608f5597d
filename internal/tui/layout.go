package tui

import (
	"strings"
)

type pageLayout struct {
	windowWidth  int
	windowHeight int
	inputWidth   int
	panelWidth   int
	panelHeight  int
	logLines     int
}

func newPageLayout() pageLayout {
	return pageLayout{
		inputWidth:  60,
		panelWidth:  76,
		panelHeight: 6,
		logLines:    5,
	}
}

// Update splits the rows left over after the form chrome between the response
// panel and the session log.
func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	panelWidth := width - viewportHorizontalPadding
	if panelWidth < minViewportWidth {
		panelWidth = minViewportWidth
	}
	l.panelWidth = panelWidth
	l.inputWidth = panelWidth - inputLabelWidth
	const chrome = 14
	usable := height - chrome
	if usable < 6 {
		usable = 6
	}
	l.panelHeight = usable / 2
	if l.panelHeight < 3 {
		l.panelHeight = 3
	}
	l.logLines = usable - l.panelHeight
	if l.logLines < 3 {
		l.logLines = 3
	}
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func (m *model) wrapWidth(padding int) int {
	width := m.layout.panelWidth
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func previewText(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

func logLabel(kind string) string {
	switch kind {
	case "sent":
		return "Sent"
	case "error":
		return "Error"
	case "upcoming":
		return "Upcoming"
	default:
		return kind
	}
}

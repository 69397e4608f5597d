package tui

import (
	"github.com/csheth/remindme/internal/form"
	"github.com/csheth/remindme/internal/history"
)

type focusTarget int

const (
	focusTitle focusTarget = iota
	focusTime
	focusSend
)

var focusSequence = []focusTarget{
	focusTitle,
	focusTime,
	focusSend,
}

const heroTagline = "Send natural-language reminders to your calendar."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	inputLabelWidth           = 8
	logPreviewLimit           = 120
	historySeedCount          = 20
)

const (
	titlePlaceholder = "What should you be reminded about?"
	timePlaceholder  = "When? e.g. Tomorrow at 8am"
)

type submitResultMsg struct {
	record history.Record
	resp   form.Response
	err    error
}

type upcomingResultMsg struct {
	lines []string
	err   error
}

type historyLoadedMsg struct {
	records []history.Record
	err     error
}

type historySavedMsg struct {
	id  string
	err error
}

type logEntry struct {
	Kind    string
	Content string
}

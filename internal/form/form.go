package form

import "fmt"

const (
	// SuccessTemplate prefixes the backend response once a reminder is created.
	SuccessTemplate = "A reminder has been successfully created and added to your Google Calander:\n"
	// ErrorTemplate prefixes the error detail when a submission fails.
	ErrorTemplate = "ERROR Accured:\n"
)

// Values the form is pre-filled with at load.
const (
	// DefaultTitle is the initial title field value.
	DefaultTitle = "Give Sarah 2 pills of Valacyclovir"
	// DefaultTimeStr is the initial time field value.
	DefaultTimeStr = "Tomorrow at 8am"
)

// Request is the payload posted to the reminders endpoint.
type Request struct {
	Title   string `json:"title"`
	TimeStr string `json:"time_str"`
}

// Response carries the opaque text the backend returns on success.
type Response struct {
	Text string
}

// State is everything the screen shows about a submission.
type State struct {
	SubmitEnabled bool
	PanelVisible  bool
	ResponseText  string
}

// Initial is the state at load: button enabled, panel hidden, no text.
func Initial() State {
	return State{SubmitEnabled: true}
}

// Begin validates the two field values and, when both are present, disables
// the submit control and returns the request to send. When ok is false the
// returned state equals s and nothing must be sent.
func Begin(s State, title, timeStr string) (State, Request, bool) {
	if title == "" || timeStr == "" {
		return s, Request{}, false
	}
	if !s.SubmitEnabled {
		return s, Request{}, false
	}
	s.SubmitEnabled = false
	return s, Request{Title: title, TimeStr: timeStr}, true
}

// Succeed shows the success text and re-enables the control.
func Succeed(s State, resp Response) State {
	s.PanelVisible = true
	s.ResponseText = SuccessText(resp)
	s.SubmitEnabled = true
	return s
}

// Fail shows the error text and re-enables the control.
func Fail(s State, err error) State {
	s.PanelVisible = true
	s.ResponseText = ErrorText(err)
	s.SubmitEnabled = true
	return s
}

// Settle applies whichever outcome the request resolved to.
func Settle(s State, resp Response, err error) State {
	if err != nil {
		return Fail(s, err)
	}
	return Succeed(s, resp)
}

// SuccessText is the panel text for a created reminder.
func SuccessText(resp Response) string {
	return SuccessTemplate + resp.Text
}

// ErrorText is the panel text for a failed request, the error detail verbatim.
func ErrorText(err error) string {
	if err == nil {
		return ErrorTemplate
	}
	return fmt.Sprintf("%s%v", ErrorTemplate, err)
}

package reminders

import (
	"errors"
	"fmt"
)

// ErrRequestFailed matches every failure surfaced by Client: transport
// errors, non-2xx replies and undecodable bodies alike.
var ErrRequestFailed = errors.New("reminders request failed")

// RequestError describes one failed call to the backend.
type RequestError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	msg := fmt.Sprintf("%s reminder: %v", e.Op, e.Err)
	if e.StatusCode != 0 && e.Body != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Body)
	}
	return msg
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

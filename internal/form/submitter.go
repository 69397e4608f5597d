package form

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Sender delivers a reminder request to the backend.
type Sender interface {
	Create(ctx context.Context, req Request) (Response, error)
}

// Observer is notified after every state change, including the disable step.
type Observer func(State)

var errInterrupted = errors.New("request did not complete")

// Submitter runs the full submission lifecycle against a Sender. It is safe
// for concurrent use; a second Submit while one is in flight is a no-op.
type Submitter struct {
	sender  Sender
	logger  logrus.FieldLogger
	observe Observer

	mu    sync.Mutex
	state State
}

// NewSubmitter returns a Submitter in the initial state. logger and observe
// may be nil.
func NewSubmitter(sender Sender, logger logrus.FieldLogger, observe Observer) *Submitter {
	if logger == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		logger = quiet
	}
	return &Submitter{
		sender:  sender,
		logger:  logger,
		observe: observe,
		state:   Initial(),
	}
}

// State returns a copy of the current state.
func (s *Submitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit sends one reminder when both values are non-empty and no other
// submission is in flight. sent reports whether a request went out. The
// control is re-enabled when the request settles, whatever the outcome.
func (s *Submitter) Submit(ctx context.Context, title, timeStr string) (final State, sent bool) {
	req, ok := s.begin(title, timeStr)
	if !ok {
		return s.State(), false
	}

	var (
		resp Response
		err  = errInterrupted
	)
	defer func() {
		final = s.settle(resp, err)
	}()

	started := time.Now()
	resp, err = s.sender.Create(ctx, req)
	LogOutcome(s.logger, req, time.Since(started), err)
	return final, true
}

// LogOutcome records how a settled request ended: Error with the failure,
// Info on success.
func LogOutcome(logger logrus.FieldLogger, req Request, elapsed time.Duration, err error) {
	entry := logger.WithFields(logrus.Fields{
		"title":    req.Title,
		"duration": elapsed,
	})
	if err != nil {
		entry.WithError(err).WithField("time_str", req.TimeStr).Error("reminder request failed")
		return
	}
	entry.Info("reminder created")
}

func (s *Submitter) begin(title, timeStr string) (Request, bool) {
	s.mu.Lock()
	next, req, ok := Begin(s.state, title, timeStr)
	if ok {
		s.state = next
	}
	s.mu.Unlock()
	if ok {
		s.notify(next)
	}
	return req, ok
}

func (s *Submitter) settle(resp Response, err error) State {
	s.mu.Lock()
	s.state = Settle(s.state, resp, err)
	next := s.state
	s.mu.Unlock()
	s.notify(next)
	return next
}

func (s *Submitter) notify(state State) {
	if s.observe != nil {
		s.observe(state)
	}
}

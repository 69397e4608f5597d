package form

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

type fakeSender struct {
	mu       sync.Mutex
	requests []Request
	resp     Response
	err      error
	during   func()
	release  chan struct{}
	started  chan struct{}
}

func (f *fakeSender) Create(ctx context.Context, req Request) (Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.during != nil {
		f.during()
	}
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.resp, f.err
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func TestSubmitterSkipsEmptyInput(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	var observed []State
	sub := NewSubmitter(sender, nil, func(s State) { observed = append(observed, s) })

	state, sent := sub.Submit(context.Background(), "", "5pm")
	if sent {
		t.Fatal("no request should be sent with an empty title")
	}
	if sender.count() != 0 {
		t.Fatalf("sender called %d times", sender.count())
	}
	if state != Initial() {
		t.Fatalf("state changed: %+v", state)
	}
	if len(observed) != 0 {
		t.Fatalf("observer should not fire, got %d updates", len(observed))
	}
}

func TestSubmitterDisablesDuringRequest(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{resp: Response{Text: "ok"}}
	var sub *Submitter
	var duringState State
	sender.during = func() { duringState = sub.State() }
	sub = NewSubmitter(sender, nil, nil)

	state, sent := sub.Submit(context.Background(), "Test", "5pm")
	if !sent {
		t.Fatal("expected request to be sent")
	}
	if duringState.SubmitEnabled {
		t.Fatal("control should be disabled while the request is outstanding")
	}
	if !state.SubmitEnabled || !state.PanelVisible {
		t.Fatalf("control should be re-enabled after settle, got %+v", state)
	}
	if len(sender.requests) != 1 || sender.requests[0] != (Request{Title: "Test", TimeStr: "5pm"}) {
		t.Fatalf("unexpected requests: %#v", sender.requests)
	}
}

func TestSubmitterReenablesOnFailure(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{err: errors.New("network down")}
	var observed []State
	sub := NewSubmitter(sender, nil, func(s State) { observed = append(observed, s) })

	state, _ := sub.Submit(context.Background(), "Test", "5pm")
	if state.ResponseText != "ERROR Accured:\nnetwork down" {
		t.Fatalf("unexpected text %q", state.ResponseText)
	}
	if !state.SubmitEnabled {
		t.Fatal("control should be enabled after a failure")
	}
	if len(observed) != 2 {
		t.Fatalf("expected disable + settle updates, got %d", len(observed))
	}
	if observed[0].SubmitEnabled {
		t.Fatal("first update should disable the control")
	}
	if !observed[1].SubmitEnabled {
		t.Fatal("last update should re-enable the control")
	}
}

func TestSubmitterReenablesAfterPanic(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{during: func() { panic("boom") }}
	sub := NewSubmitter(sender, nil, nil)

	func() {
		defer func() { _ = recover() }()
		sub.Submit(context.Background(), "Test", "5pm")
	}()

	if state := sub.State(); !state.SubmitEnabled {
		t.Fatalf("control left disabled after panic: %+v", state)
	}
}

func TestSubmitterIgnoresOverlappingSubmit(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{
		resp:    Response{Text: "ok"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	sub := NewSubmitter(sender, nil, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sub.Submit(context.Background(), "Test", "5pm")
	}()
	<-sender.started

	if _, sent := sub.Submit(context.Background(), "Again", "6pm"); sent {
		t.Fatal("overlapping submission should not be sent")
	}
	close(sender.release)
	<-done

	if sender.count() != 1 {
		t.Fatalf("expected exactly one request, got %d", sender.count())
	}
}

func TestSubmitterLogsOneEntryPerRequest(t *testing.T) {
	t.Parallel()

	logger, hook := logtest.NewNullLogger()
	sender := &fakeSender{err: errors.New("network down")}
	sub := NewSubmitter(sender, logger, nil)

	sub.Submit(context.Background(), "Test", "5pm")

	entries := hook.AllEntries()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	if entries[0].Level != logrus.ErrorLevel || entries[0].Data["time_str"] != "5pm" {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
}

func TestLogOutcome(t *testing.T) {
	t.Parallel()

	logger, hook := logtest.NewNullLogger()
	req := Request{Title: "Walk dog", TimeStr: "tonight"}

	LogOutcome(logger, req, time.Second, nil)
	entry := hook.LastEntry()
	if entry.Level != logrus.InfoLevel || entry.Message != "reminder created" {
		t.Fatalf("success entry = %+v", entry)
	}
	if entry.Data["title"] != "Walk dog" || entry.Data["duration"] != time.Second {
		t.Fatalf("success fields = %+v", entry.Data)
	}

	LogOutcome(logger, req, time.Second, errors.New("status 500"))
	entry = hook.LastEntry()
	if entry.Level != logrus.ErrorLevel || entry.Message != "reminder request failed" {
		t.Fatalf("failure entry = %+v", entry)
	}
	if err, ok := entry.Data[logrus.ErrorKey].(error); !ok || err.Error() != "status 500" {
		t.Fatalf("failure error field = %+v", entry.Data)
	}
}

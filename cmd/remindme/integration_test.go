package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/csheth/remindme/internal/form"
	"github.com/csheth/remindme/internal/history"
	"github.com/csheth/remindme/internal/tuitest"
)

type fakeBackend struct {
	mu       sync.Mutex
	requests []form.Request
	status   int
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/remind" {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "Walk dog at 5pm\nPay rent on Friday"})
		return
	}
	var req form.Request
	_ = json.NewDecoder(r.Body).Decode(&req)
	b.mu.Lock()
	b.requests = append(b.requests, req)
	status := b.status
	b.mu.Unlock()
	if status != 0 {
		http.Error(w, "backend exploded", status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"response": "Created: " + req.Title})
}

func (b *fakeBackend) Requests() []form.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]form.Request(nil), b.requests...)
}

func isolatedArgs(t *testing.T, endpoint string, extra ...string) ([]string, string) {
	t.Helper()
	dir := t.TempDir()
	historyPath := filepath.Join(dir, "history.json")
	args := []string{
		"-endpoint", endpoint,
		"-history", historyPath,
		"-log-file", filepath.Join(dir, "remindme.log"),
	}
	return append(args, extra...), historyPath
}

func TestSendOnceSuccess(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	args, historyPath := isolatedArgs(t, srv.URL, "-send", "-title", "Walk dog", "-time", "in 5 minutes")
	var stdout, stderr bytes.Buffer
	if code := run(args, &stdout, &stderr); code != exitOK {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr.String())
	}

	want := form.SuccessTemplate + "Created: Walk dog\n"
	if stdout.String() != want {
		t.Fatalf("stdout = %q want %q", stdout.String(), want)
	}
	reqs := backend.Requests()
	if len(reqs) != 1 || reqs[0] != (form.Request{Title: "Walk dog", TimeStr: "in 5 minutes"}) {
		t.Fatalf("requests = %+v", reqs)
	}

	store := history.NewFileStore(historyPath)
	records, err := store.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	if len(records) != 1 || records[0].Status != history.StatusSucceeded {
		t.Fatalf("history = %+v", records)
	}
}

func TestSendOnceFailure(t *testing.T) {
	backend := &fakeBackend{status: http.StatusInternalServerError}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	args, _ := isolatedArgs(t, srv.URL, "-send", "-title", "Walk dog", "-time", "later")
	var stdout, stderr bytes.Buffer
	if code := run(args, &stdout, &stderr); code != exitFailed {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.HasPrefix(stdout.String(), form.ErrorTemplate) {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestSendOnceEmptyTitleSendsNothing(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	args, _ := isolatedArgs(t, srv.URL, "-send", "-title", "", "-time", "later")
	var stdout, stderr bytes.Buffer
	if code := run(args, &stdout, &stderr); code != exitNothing {
		t.Fatalf("exit code = %d", code)
	}
	if len(backend.Requests()) != 0 {
		t.Fatalf("unexpected requests %+v", backend.Requests())
	}
	if stdout.Len() != 0 {
		t.Fatalf("stdout should be empty, got %q", stdout.String())
	}
}

func TestSendOnceUsesConfiguredDefaults(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend)
	defer srv.Close()
	t.Setenv("REMIND_DEFAULT_TITLE", "Water plants")

	args, _ := isolatedArgs(t, srv.URL, "-send")
	var stdout, stderr bytes.Buffer
	if code := run(args, &stdout, &stderr); code != exitOK {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr.String())
	}
	reqs := backend.Requests()
	if len(reqs) != 1 || reqs[0] != (form.Request{Title: "Water plants", TimeStr: form.DefaultTimeStr}) {
		t.Fatalf("requests = %+v", reqs)
	}
}

func TestTUISendsDefaultReminder(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	args, _ := isolatedArgs(t, srv.URL, "-no-alt-screen")
	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: append([]string{binary}, args...),
		Dir:     t.TempDir(),
		Width:   100,
		Height:  40,
		Steps: []tuitest.Step{
			tuitest.Wait(time.Second),
			tuitest.Press(tuitest.KeyCtrlS),
			tuitest.Wait(time.Second),
			tuitest.Press(tuitest.KeyCtrlL),
			tuitest.Wait(time.Second),
			tuitest.Press(tuitest.KeyCtrlC),
		},
		Timeout:        10 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	if _, ok := rec.FinalFrame(); !ok {
		t.Fatal("no frames captured")
	}
	for _, want := range []string{"Created: " + form.DefaultTitle, "Pay rent on Friday"} {
		if !rec.Contains(want) {
			t.Fatalf("output never showed %q:\n%s", want, rec.Plain())
		}
	}
	if got := backend.Requests(); len(got) != 1 {
		t.Fatalf("expected one request, got %+v", got)
	}
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	name := "remindme-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(t.TempDir(), name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}

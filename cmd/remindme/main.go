package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/csheth/remindme/internal/config"
	"github.com/csheth/remindme/internal/form"
	"github.com/csheth/remindme/internal/history"
	"github.com/csheth/remindme/internal/logger"
	"github.com/csheth/remindme/internal/reminders"
	"github.com/csheth/remindme/internal/tui"
)

const (
	exitOK      = 0
	exitFailed  = 1
	exitNothing = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(config.DefaultEnvFile)
	if err != nil {
		fmt.Fprintln(stderr, "failed to load configuration:", err)
		return exitFailed
	}

	fs := flag.NewFlagSet("remindme", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg.BindFlags(fs)
	noAltScreen := fs.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	sendOnce := fs.Bool("send", false, "send one reminder without starting the TUI")
	title := fs.String("title", "", "reminder title for -send (defaults to -default-title)")
	timeStr := fs.String("time", "", "natural-language time for -send (defaults to -default-time)")
	if err := fs.Parse(args); err != nil {
		return exitNothing
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "invalid configuration:", err)
		return exitNothing
	}

	logOpts := logger.Options{Level: cfg.LogLevel, File: cfg.LogFile}
	if *sendOnce {
		// Nothing draws over the terminal in this mode.
		logOpts = logger.Options{Level: cfg.LogLevel, Output: stderr}
	}
	log, closer, err := logger.New(logOpts)
	if err != nil {
		fmt.Fprintln(stderr, "failed to open log:", err)
		return exitFailed
	}
	defer closer.Close()

	client := reminders.New(reminders.Config{
		BaseURL:    cfg.Endpoint,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		Logger:     log,
	})

	var store history.Store
	if cfg.HistoryPath != "" {
		store, err = history.Open(cfg.HistoryPath)
		if err != nil {
			log.WithError(err).WithField("path", cfg.HistoryPath).Warn("history disabled")
			store = nil
		} else {
			defer store.Close()
		}
	}

	if *sendOnce {
		set := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		if !set["title"] {
			*title = cfg.DefaultTitle
		}
		if !set["time"] {
			*timeStr = cfg.DefaultTime
		}
		return sendOne(client, store, log, *title, *timeStr, stdout, stderr)
	}

	log.WithField("endpoint", cfg.Endpoint).Info("starting remindme")
	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Client:       client,
			History:      store,
			Logger:       log,
			Endpoint:     cfg.Endpoint,
			DefaultTitle: cfg.DefaultTitle,
			DefaultTime:  cfg.DefaultTime,
			ListCount:    cfg.ListCount,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		fmt.Fprintln(stderr, "program error:", err)
		return exitFailed
	}
	return exitOK
}

// recordingSender settles a history record around each request it forwards.
type recordingSender struct {
	next    form.Sender
	settled *history.Record
}

func (r *recordingSender) Create(ctx context.Context, req form.Request) (form.Response, error) {
	record := history.NewRecord(req, time.Now())
	resp, err := r.next.Create(ctx, req)
	record = record.Settle(resp, err, time.Now())
	r.settled = &record
	return resp, err
}

func sendOne(client form.Sender, store history.Store, log logrus.FieldLogger, title, timeStr string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sender := &recordingSender{next: client}
	submitter := form.NewSubmitter(sender, log, nil)
	state, sent := submitter.Submit(ctx, title, timeStr)
	if !sent {
		fmt.Fprintln(stderr, "both -title and -time must be non-empty")
		return exitNothing
	}
	fmt.Fprintln(stdout, state.ResponseText)

	record := sender.settled
	if record != nil && store != nil {
		if err := store.Append(context.Background(), *record); err != nil {
			log.WithError(err).WithField("submission", record.ID).Warn("history not saved")
		}
	}
	if record == nil || record.Status != history.StatusSucceeded {
		return exitFailed
	}
	return exitOK
}

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/csheth/remindme/internal/form"
	"github.com/csheth/remindme/internal/history"
)

// submitJob sends exactly one request. There is no timeout or retry: the
// request always runs until it settles.
func submitJob(client Client, logger logrus.FieldLogger, record history.Record, req form.Request) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		resp, err := client.Create(parent, req)
		settled := record.Settle(resp, err, time.Now())
		form.LogOutcome(logger.WithField("submission", record.ID), req, settled.Duration(), err)
		return submitResultMsg{record: settled, resp: resp, err: err}, err
	}
}

func upcomingJob(client Client, count int) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		lines, err := client.List(parent, count)
		return upcomingResultMsg{lines: lines, err: err}, err
	}
}

func loadHistoryJob(store history.Store, count int) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 5*time.Second)
		defer cancel()
		records, err := store.Recent(ctx, count)
		return historyLoadedMsg{records: records, err: err}, err
	}
}

func saveHistoryJob(store history.Store, record history.Record) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 5*time.Second)
		defer cancel()
		err := store.Append(ctx, record)
		return historySavedMsg{id: record.ID, err: err}, err
	}
}

func recordLogEntry(record history.Record) logEntry {
	when := record.SubmittedAt.Format("15:04:05")
	summary := fmt.Sprintf("%s  %s @ %s", when, previewText(record.Title, 48), previewText(record.TimeStr, 32))
	if record.Status == history.StatusFailed {
		return logEntry{Kind: "error", Content: summary + "  failed: " + previewText(record.Error, logPreviewLimit)}
	}
	response := strings.ReplaceAll(record.Response, "\n", " ")
	took := record.Duration().Round(10 * time.Millisecond)
	return logEntry{Kind: "sent", Content: fmt.Sprintf("%s  (%s)  %s", summary, took, previewText(response, logPreviewLimit))}
}

package reminders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/csheth/remindme/internal/form"
)

const (
	remindPath       = "/remind"
	jsonContentType  = "application/json; charset=utf-8"
	jsonAccept       = "application/json"
	requestIDHeader  = "X-Request-ID"
	errorBodyPreview = 512
)

// ErrInvalidCount is returned by List for non-positive counts.
var ErrInvalidCount = errors.New("reminder count must be positive")

// Config describes how to reach the reminders backend.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
}

// Client talks to the /remind endpoint.
type Client struct {
	base   string
	client *http.Client
	logger logrus.FieldLogger
}

// New builds a Client. A nil HTTPClient means http.Client with no timeout of
// its own; callers bound requests through their context.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		logger = quiet
	}
	return &Client{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		client: httpClient,
		logger: logger,
	}
}

type envelope struct {
	Response *string `json:"response"`
}

// Create posts a new reminder and returns the backend's response text.
func (c *Client) Create(ctx context.Context, req form.Request) (form.Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return form.Response{}, &RequestError{Op: "create", Err: err}
	}
	text, err := c.do(ctx, "create", http.MethodPost, c.base+remindPath, payload)
	if err != nil {
		return form.Response{}, err
	}
	return form.Response{Text: text}, nil
}

// List fetches the n most recently created reminders, one line each.
func (c *Client) List(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, ErrInvalidCount
	}
	query := url.Values{}
	query.Set("n", strconv.Itoa(n))
	text, err := c.do(ctx, "list", http.MethodGet, c.base+remindPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return splitLines(text), nil
}

func (c *Client) do(ctx context.Context, op, method, target string, body []byte) (string, error) {
	requestID := uuid.NewString()
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return "", &RequestError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", jsonContentType)
	}
	req.Header.Set("Accept", jsonAccept)
	req.Header.Set(requestIDHeader, requestID)

	log := c.logger.WithFields(logrus.Fields{
		"op":         op,
		"request_id": requestID,
	})
	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		log.WithError(err).Warn("reminders request failed")
		return "", &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &RequestError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	log = log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(started),
	})
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("reminders backend returned an error status")
		return "", &RequestError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       preview(raw),
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var parsed envelope
	if err := json.Unmarshal(raw, &parsed); err != nil {
		log.WithError(err).Warn("reminders backend returned malformed JSON")
		return "", &RequestError{Op: op, StatusCode: resp.StatusCode, Body: preview(raw), Err: fmt.Errorf("decode response: %w", err)}
	}
	if parsed.Response == nil {
		return "", &RequestError{Op: op, StatusCode: resp.StatusCode, Body: preview(raw), Err: errors.New(`response field missing`)}
	}
	log.Debug("reminders request completed")
	return *parsed.Response, nil
}

func splitLines(text string) []string {
	lines := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// preview clips raw to errorBodyPreview bytes without splitting a rune.
func preview(raw []byte) string {
	if len(raw) > errorBodyPreview {
		cut := errorBodyPreview
		for cut > 0 && !utf8.RuneStart(raw[cut]) {
			cut--
		}
		raw = raw[:cut]
	}
	return strings.TrimSpace(string(raw))
}

package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/sirupsen/logrus"

	"github.com/csheth/remindme/internal/form"
	"github.com/csheth/remindme/internal/history"
)

// Client is the slice of the reminders backend the screen needs.
type Client interface {
	form.Sender
	List(ctx context.Context, n int) ([]string, error)
}

// Config wires runtime options into the TUI program.
type Config struct {
	Client       Client
	History      history.Store
	Logger       logrus.FieldLogger
	Endpoint     string
	DefaultTitle string
	DefaultTime  string
	ListCount    int
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.Logger == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		config.Logger = quiet
	}
	if config.ListCount <= 0 {
		config.ListCount = 10
	}
	layout := newPageLayout()

	titleInput := textinput.New()
	titleInput.Placeholder = titlePlaceholder
	titleInput.Width = layout.inputWidth
	titleInput.Prompt = ""
	titleInput.SetValue(config.DefaultTitle)
	titleInput.Focus()

	timeInput := textinput.New()
	timeInput.Placeholder = timePlaceholder
	timeInput.Width = layout.inputWidth
	timeInput.Prompt = ""
	timeInput.SetValue(config.DefaultTime)

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	panel := viewport.New(layout.panelWidth, layout.panelHeight)

	return &model{
		config:      config,
		state:       form.Initial(),
		titleInput:  titleInput,
		timeInput:   timeInput,
		focus:       focusTitle,
		spinner:     spin,
		panel:       panel,
		layout:      layout,
		jobs:        newJobBus(config.Logger),
		jobStatus:   map[jobKind]jobSnapshot{},
		infoMessage: "Fill in both fields, then press Ctrl+S or Enter on Send.",
	}
}

type model struct {
	config Config
	state  form.State

	titleInput textinput.Model
	timeInput  textinput.Model
	focus      focusTarget
	spinner    spinner.Model
	panel      viewport.Model
	layout     pageLayout

	jobs      *jobBus
	jobStatus map[jobKind]jobSnapshot

	pending         *history.Record
	submissions     int
	failures        int
	logEntries      []logEntry
	upcoming        []string
	upcomingLoaded  bool
	upcomingLoading bool
	upcomingError   string
	lastFailed      bool
	infoMessage     string
	errorMessage    string
	helpVisible     bool
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.config.History != nil {
		cmds = append(cmds, m.jobs.Start(jobKindHistory, loadHistoryJob(m.config.History, historySeedCount)))
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.state.SubmitEnabled || m.upcomingLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.panel, cmd = m.panel.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case jobSignalMsg:
		m.jobStatus[msg.Snapshot.Kind] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		m.jobStatus[msg.Snapshot.Kind] = msg.Snapshot
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case submitResultMsg:
		return m, m.handleSubmitResult(msg)
	case upcomingResultMsg:
		m.handleUpcomingResult(msg)
		return m, nil
	case historyLoadedMsg:
		m.handleHistoryLoaded(msg)
		return m, nil
	case historySavedMsg:
		if msg.err != nil {
			m.config.Logger.WithError(msg.err).WithField("submission", msg.id).Warn("history not saved")
			m.errorMessage = fmt.Sprintf("history not saved: %v", msg.err)
		}
		return m, nil
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "down":
		return m, m.moveFocus(1)
	case "shift+tab", "up":
		return m, m.moveFocus(-1)
	case "ctrl+s":
		return m, m.click()
	case "ctrl+l":
		return m, m.requestUpcoming()
	case "pgdown":
		m.panel.ViewDown()
		return m, nil
	case "pgup":
		m.panel.ViewUp()
		return m, nil
	case "enter":
		if m.focus == focusSend {
			return m, m.click()
		}
		return m, m.moveFocus(1)
	}

	switch m.focus {
	case focusTitle:
		var cmd tea.Cmd
		m.titleInput, cmd = m.titleInput.Update(key)
		return m, cmd
	case focusTime:
		var cmd tea.Cmd
		m.timeInput, cmd = m.timeInput.Update(key)
		return m, cmd
	default:
		if key.String() == "?" {
			m.helpVisible = !m.helpVisible
		}
		return m, nil
	}
}

// click is the Send button handler. It is a no-op when a field is empty or a
// submission is already in flight.
func (m *model) click() tea.Cmd {
	next, req, ok := form.Begin(m.state, m.titleInput.Value(), m.timeInput.Value())
	if !ok {
		if m.state.SubmitEnabled {
			m.infoMessage = "Both a title and a time are required."
		}
		return nil
	}
	m.state = next
	record := history.NewRecord(req, time.Now())
	m.pending = &record
	m.errorMessage = ""
	m.infoMessage = "Sending reminder…"
	return tea.Batch(
		m.spinner.Tick,
		m.jobs.Start(jobKindSubmit, submitJob(m.config.Client, m.config.Logger, record, req)),
	)
}

func (m *model) handleSubmitResult(msg submitResultMsg) tea.Cmd {
	m.state = form.Settle(m.state, msg.resp, msg.err)
	m.pending = nil
	m.submissions++
	m.lastFailed = msg.err != nil
	if msg.err != nil {
		m.failures++
		m.infoMessage = "Request failed. Adjust the fields and send again."
	} else {
		m.infoMessage = "Reminder created."
	}
	m.refreshPanel()
	m.appendLog(recordLogEntry(msg.record))
	if m.config.History == nil {
		return nil
	}
	return m.jobs.Start(jobKindHistory, saveHistoryJob(m.config.History, msg.record))
}

func (m *model) requestUpcoming() tea.Cmd {
	if m.upcomingLoading {
		return nil
	}
	m.upcomingLoading = true
	m.upcomingError = ""
	return tea.Batch(
		m.spinner.Tick,
		m.jobs.Start(jobKindUpcoming, upcomingJob(m.config.Client, m.config.ListCount)),
	)
}

func (m *model) handleUpcomingResult(msg upcomingResultMsg) {
	m.upcomingLoading = false
	m.upcomingLoaded = true
	if msg.err != nil {
		m.upcomingError = msg.err.Error()
		m.config.Logger.WithError(msg.err).Warn("listing reminders failed")
		return
	}
	m.upcoming = msg.lines
	m.appendLog(logEntry{Kind: "upcoming", Content: fmt.Sprintf("Fetched %d reminder(s).", len(msg.lines))})
}

func (m *model) handleHistoryLoaded(msg historyLoadedMsg) {
	if msg.err != nil {
		m.errorMessage = fmt.Sprintf("history unavailable: %v", msg.err)
		return
	}
	seeded := make([]logEntry, 0, len(msg.records))
	for i := len(msg.records) - 1; i >= 0; i-- {
		seeded = append(seeded, recordLogEntry(msg.records[i]))
	}
	m.logEntries = append(seeded, m.logEntries...)
}

func (m *model) moveFocus(delta int) tea.Cmd {
	idx := 0
	for i, target := range focusSequence {
		if target == m.focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(focusSequence)) % len(focusSequence)
	return m.setFocus(focusSequence[idx])
}

func (m *model) setFocus(target focusTarget) tea.Cmd {
	m.focus = target
	m.titleInput.Blur()
	m.timeInput.Blur()
	switch target {
	case focusTitle:
		return m.titleInput.Focus()
	case focusTime:
		return m.timeInput.Focus()
	default:
		return nil
	}
}

func (m *model) resize(width, height int) {
	m.layout.Update(width, height)
	m.titleInput.Width = m.layout.inputWidth
	m.timeInput.Width = m.layout.inputWidth
	m.panel.Width = m.layout.panelWidth
	m.panel.Height = m.layout.panelHeight
	m.refreshPanel()
}

func (m *model) refreshPanel() {
	m.panel.SetContent(wordwrap.String(m.state.ResponseText, m.wrapWidth(2)))
	m.panel.GotoTop()
}

func (m *model) appendLog(entry logEntry) {
	m.logEntries = append(m.logEntries, entry)
}

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	labelStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147")).Width(inputLabelWidth)
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	heroAccentColor        = lipgloss.Color("#ff8c00")
	heroSecondaryTextColor = lipgloss.Color("#ffb347")

	heroTitleStyle      = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	taglineStyle        = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	statusBarStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle            = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	helpBoxStyle        = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(1, 2)
	panelBoxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
	buttonStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 2)
	buttonFocusedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 2)
	buttonDisabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e6a86")).Background(lipgloss.Color("#26233a")).Padding(0, 2)
)

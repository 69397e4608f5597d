package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

func (m *model) View() string {
	parts := []string{
		m.heroView(),
		m.formView(),
		m.responseView(),
		m.upcomingView(),
		m.messagesView(),
		m.sessionMeterView(),
	}
	if m.helpVisible {
		parts = append(parts, m.helpView())
	}
	parts = append(parts, m.sessionLogView())
	return joinNonEmpty(parts)
}

func (m *model) heroView() string {
	title := heroTitleStyle.Render("remindme")
	if m.config.Endpoint != "" {
		title = lipgloss.JoinHorizontal(lipgloss.Top, title, helperStyle.Render("  → "+m.config.Endpoint))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, taglineStyle.Render(heroTagline))
}

func (m *model) formView() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("New Reminder"))
	b.WriteRune('\n')
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Title"), m.titleInput.View()))
	b.WriteRune('\n')
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("When"), m.timeInput.View()))
	b.WriteRune('\n')
	b.WriteRune('\n')
	b.WriteString(m.buttonView())
	return b.String()
}

func (m *model) buttonView() string {
	if !m.state.SubmitEnabled {
		label := fmt.Sprintf("%s Sending…", m.spinner.View())
		return buttonDisabledStyle.Render(label)
	}
	if m.focus == focusSend {
		return buttonFocusedStyle.Render("▸ Send")
	}
	return buttonStyle.Render("Send")
}

// responseView renders nothing until the first submission settles.
func (m *model) responseView() string {
	if !m.state.PanelVisible {
		return ""
	}
	header := sectionHeaderStyle.Render("Response")
	if m.lastFailed {
		header = errorStyle.Bold(true).Render("Response")
	}
	body := panelBoxStyle.Render(m.panel.View())
	if m.panel.TotalLineCount() > m.panel.VisibleLineCount() {
		scroll := helperStyle.Render(fmt.Sprintf("PgUp/PgDn to scroll · %3.f%%", m.panel.ScrollPercent()*100))
		body = lipgloss.JoinVertical(lipgloss.Left, body, scroll)
	}
	return joinNonEmpty([]string{header, body})
}

func (m *model) upcomingView() string {
	if !m.upcomingLoading && !m.upcomingLoaded {
		return ""
	}
	var cb strings.Builder
	cb.WriteString(sectionHeaderStyle.Render("Upcoming Reminders"))
	cb.WriteRune('\n')
	switch {
	case m.upcomingLoading:
		cb.WriteString(helperStyle.Render(fmt.Sprintf("%s Fetching the latest %d…", m.spinner.View(), m.config.ListCount)))
	case m.upcomingError != "":
		cb.WriteString(errorStyle.Render(m.upcomingError))
	case len(m.upcoming) == 0:
		cb.WriteString(helperStyle.Render("No reminders returned."))
	default:
		wrap := m.wrapWidth(4)
		for idx, line := range m.upcoming {
			cb.WriteString(" • ")
			cb.WriteString(strings.TrimPrefix(indentMultiline(wordwrap.String(line, wrap), "   "), "   "))
			if idx < len(m.upcoming)-1 {
				cb.WriteRune('\n')
			}
		}
	}
	return cb.String()
}

func (m *model) messagesView() string {
	parts := []string{}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	return strings.Join(parts, "\n")
}

func (m *model) sessionLogView() string {
	var cb strings.Builder
	cb.WriteString(sectionHeaderStyle.Render("Session Log"))
	cb.WriteRune('\n')
	if len(m.logEntries) == 0 {
		cb.WriteString(helperStyle.Render("Submissions will appear here once they settle."))
		return cb.String()
	}
	entries := m.logEntries
	if limit := m.layout.logLines; limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	for idx, entry := range entries {
		label := logLabel(entry.Kind)
		line := fmt.Sprintf("%-9s %s", label, entry.Content)
		if entry.Kind == "error" {
			cb.WriteString(errorStyle.Render(line))
		} else {
			cb.WriteString(helperStyle.Render(line))
		}
		if idx < len(entries)-1 {
			cb.WriteRune('\n')
		}
	}
	return cb.String()
}

func (m *model) focusLabel() string {
	switch m.focus {
	case focusTitle:
		return "TITLE"
	case focusTime:
		return "TIME"
	default:
		return "SEND"
	}
}

func (m *model) sessionMeterView() string {
	stats := []string{
		fmt.Sprintf("Focus %s", m.focusLabel()),
		fmt.Sprintf("Sent %d", m.submissions),
	}
	if m.failures > 0 {
		stats = append(stats, fmt.Sprintf("Failed %d", m.failures))
	}
	if !m.state.SubmitEnabled {
		stats = append(stats, "Request in flight")
	}
	if badges := m.jobStatusBadges(); len(badges) > 0 {
		stats = append(stats, badges...)
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) jobStatusBadges() []string {
	badges := []string{}
	for _, kind := range []jobKind{jobKindSubmit, jobKindUpcoming, jobKindHistory} {
		snapshot, ok := m.jobStatus[kind]
		if !ok {
			continue
		}
		switch snapshot.Status {
		case jobStatusRunning:
			badges = append(badges, fmt.Sprintf("%s…", kind))
		case jobStatusFailed:
			badges = append(badges, fmt.Sprintf("%s ✗", kind))
		default:
			badges = append(badges, fmt.Sprintf("%s ✓ %s", kind, snapshot.Duration.Round(time.Millisecond)))
		}
	}
	return badges
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) helpView() string {
	hints := []keyHint{
		{"Tab/Shift+Tab", "Move focus"},
		{"Enter", "Next field / press Send"},
		{"Ctrl+S", "Send from anywhere"},
		{"Ctrl+L", "List upcoming reminders"},
		{"PgUp/PgDn", "Scroll the response"},
		{"?", "Toggle this help (on Send)"},
		{"Esc/Ctrl+C", "Quit"},
	}
	rows := []string{sectionHeaderStyle.Render("Keys")}
	for _, hint := range hints {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, keyStyle.Render(hint.Key), keyDescStyle.Render(" "+hint.Description)))
	}
	return helpBoxStyle.Render(strings.Join(rows, "\n"))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/record"
	"github.com/MrJamesThe3rd/tally/internal/report"
)

// CalendarModel shows the records of a single day.
type CalendarModel struct {
	CommonModel
	reportService *report.Service
	userID        string

	date    time.Time
	input   textinput.Model
	editing bool

	summary *report.DaySummary
	loading bool
	err     error
}

func NewCalendarModel(svc *report.Service, userID string, date time.Time) CalendarModel {
	ti := textinput.New()
	ti.Placeholder = "YYYY-MM-DD"
	ti.CharLimit = 10
	ti.Width = 12
	ti.Prompt = "Date: "

	return CalendarModel{
		reportService: svc,
		userID:        userID,
		date:          record.Day(date),
		input:         ti,
		loading:       true,
	}
}

func (m CalendarModel) Title() string { return "Calendar" }

func (m CalendarModel) ShortHelp() string {
	if m.editing {
		return "Enter: go to date | Esc: cancel"
	}

	return "Esc: back | ←/→: previous/next day | g: go to date | t: today"
}

func (m CalendarModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CalendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDayMsg:
		if !msg.date.Equal(m.date) {
			return m, nil
		}

		m.loading = false
		m.err = msg.err
		m.summary = msg.summary

		return m, nil

	case RecordsChangedMsg:
		return m.goTo(m.date)

	case tea.KeyMsg:
		if m.editing {
			return m.updateInput(msg)
		}

		switch msg.String() {
		case "esc":
			return m, Back
		case "left", "h":
			return m.goTo(m.date.AddDate(0, 0, -1))
		case "right", "l":
			return m.goTo(m.date.AddDate(0, 0, 1))
		case "t":
			return m.goTo(time.Now())
		case "g":
			m.editing = true
			m.err = nil
			m.input.SetValue(FormatDate(m.date))
			m.input.Focus()

			return m, textinput.Blink
		}
	}

	return m, nil
}

func (m CalendarModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = false
		m.input.Blur()

		return m, nil
	case tea.KeyEnter:
		d, err := time.Parse(time.DateOnly, strings.TrimSpace(m.input.Value()))
		if err != nil {
			m.err = fmt.Errorf("invalid date %q, expected YYYY-MM-DD", m.input.Value())
			return m, nil
		}

		m.editing = false
		m.input.Blur()

		return m.goTo(d)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m CalendarModel) goTo(d time.Time) (tea.Model, tea.Cmd) {
	m.date = record.Day(d)
	m.loading = true
	m.err = nil

	return m, m.loadCmd()
}

func (m CalendarModel) View() string {
	style := lipgloss.NewStyle().Padding(1, 2)

	header := fmt.Sprintf("%s  %s", activeStyle(FormatDate(m.date)), m.date.Weekday())
	if m.editing {
		header = m.input.View()
	}

	parts := []string{header, ""}

	switch {
	case m.err != nil:
		parts = append(parts, errorText(fmt.Sprintf("Error: %v", m.err)))
	case m.loading || m.summary == nil:
		parts = append(parts, "Loading...")
	default:
		parts = append(parts,
			lipgloss.JoinHorizontal(lipgloss.Top,
				card("Income", FormatAmount(m.summary.TotalIncome)),
				card("Expenses", FormatAmount(m.summary.TotalExpense)),
			),
			"",
			renderItems(m.summary.Items),
		)
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func renderItems(items []report.LineItem) string {
	if len(items) == 0 {
		return lipgloss.NewStyle().Faint(true).Render("Nothing recorded on this day.")
	}

	rows := make([]string, 0, len(items))
	for _, it := range items {
		sign, color := "-", lipgloss.Color("203")
		if it.IsIncome {
			sign, color = "+", lipgloss.Color("42")
		}

		amount := lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%s%10s", sign, FormatAmount(it.Amount)))
		rows = append(rows, fmt.Sprintf("%s  %s", amount, it.Label))
	}

	return strings.Join(rows, "\n")
}

// Messages

type loadDayMsg struct {
	date    time.Time
	summary *report.DaySummary
	err     error
}

func (m CalendarModel) loadCmd() tea.Cmd {
	svc, userID, date := m.reportService, m.userID, m.date

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		s, err := svc.Day(ctx, userID, date)

		return loadDayMsg{date: date, summary: s, err: err}
	}
}

package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/record"
)

// Timeframe is a predefined date range used to filter the records table.
type Timeframe int

const (
	TimeframeAll Timeframe = iota
	TimeframeThisWeek
	TimeframeThisMonth
	TimeframeLastMonth
	timeframeCount
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeAll:
		return "All Time"
	case TimeframeThisWeek:
		return "This Week"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	}

	return "Unknown"
}

// Range returns the inclusive calendar-date bounds of t relative to now.
// ok is false for TimeframeAll.
func (t Timeframe) Range(now time.Time) (start, end time.Time, ok bool) {
	today := record.Day(now)

	switch t {
	case TimeframeThisWeek:
		offset := int(today.Weekday())
		if offset == 0 {
			offset = 7
		}

		return today.AddDate(0, 0, -offset+1), today, true
	case TimeframeThisMonth:
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC), today, true
	case TimeframeLastMonth:
		start = time.Date(today.Year(), today.Month()-1, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1), true
	}

	return time.Time{}, time.Time{}, false
}

// FilterRecords keeps the records dated inside the timeframe.
func FilterRecords(records []record.Record, tf Timeframe, now time.Time) []record.Record {
	start, end, ok := tf.Range(now)
	if !ok {
		return records
	}

	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		d := record.Day(r.Date)
		if d.Before(start) || d.After(end) {
			continue
		}

		out = append(out, r)
	}

	return out
}

type RecordsModel struct {
	CommonModel
	recordService *record.Service
	userID        string

	table     table.Model
	kind      record.Kind
	timeframe Timeframe
	all       []record.Record
	records   []record.Record

	loading bool
	err     error
}

func NewRecordsModel(svc *record.Service, userID string) RecordsModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Label", Width: 16},
		{Title: "Amount", Width: 12},
		{Title: "Payment", Width: 10},
		{Title: "Comment", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return RecordsModel{
		recordService: svc,
		userID:        userID,
		table:         t,
		kind:          record.KindExpense,
		loading:       true,
	}
}

func (m RecordsModel) Title() string { return "Records" }

func (m RecordsModel) ShortHelp() string {
	return "Esc: back | k: expenses/income | d: date filter | r: refresh"
}

func (m RecordsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadRecordsMsg:
		if msg.kind != m.kind {
			return m, nil
		}

		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.all = msg.records
			m.refreshTable()
		}

		return m, nil

	case RecordsChangedMsg:
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "k":
			if m.kind == record.KindExpense {
				m.kind = record.KindIncome
			} else {
				m.kind = record.KindExpense
			}

			m.loading = true
			m.all = nil
			m.refreshTable()

			return m, m.loadCmd()
		case "d":
			m.timeframe = (m.timeframe + 1) % timeframeCount
			m.refreshTable()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m RecordsModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorText(fmt.Sprintf("Error: %v", m.err)))
	}

	var total int64
	for _, r := range m.records {
		total += r.Amount
	}

	header := fmt.Sprintf(
		"[k] %s | [d] Date: %s | %d records, total %s",
		activeStyle(m.kind.Title()),
		activeStyle(m.timeframe.String()),
		len(m.records),
		FormatAmount(total),
	)

	if m.loading {
		header += lipgloss.NewStyle().Faint(true).Render("  loading...")
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *RecordsModel) refreshTable() {
	m.records = FilterRecords(m.all, m.timeframe, time.Now())

	rows := make([]table.Row, 0, len(m.records))
	for _, r := range m.records {
		rows = append(rows, table.Row{
			FormatDate(r.Date),
			r.Label,
			FormatAmount(r.Amount),
			r.PaymentMethod,
			r.Comment,
		})
	}

	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

// Messages

type loadRecordsMsg struct {
	kind    record.Kind
	records []record.Record
	err     error
}

func (m RecordsModel) loadCmd() tea.Cmd {
	svc, userID, kind := m.recordService, m.userID, m.kind

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		records, err := svc.List(ctx, userID, kind)

		return loadRecordsMsg{kind: kind, records: records, err: err}
	}
}

package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/record"
	"github.com/MrJamesThe3rd/tally/internal/report"
)

const barWidth = 48

type DashboardModel struct {
	CommonModel
	reportService *report.Service
	userID        string
	now           func() time.Time

	kind      record.Kind
	dashboard *report.Dashboard
	loading   bool
	err       error
}

func NewDashboardModel(svc *report.Service, userID string) DashboardModel {
	return DashboardModel{
		reportService: svc,
		userID:        userID,
		now:           time.Now,
		kind:          record.KindExpense,
		loading:       true,
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	return "Esc: back | Tab: expenses/income | r: refresh"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDashboardMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.dashboard = msg.dashboard
		}

		return m, nil

	case RecordsChangedMsg:
		m.loading = true
		return m, m.loadCmd()

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "tab":
			if m.kind == record.KindExpense {
				m.kind = record.KindIncome
			} else {
				m.kind = record.KindExpense
			}

			return m, nil
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	style := lipgloss.NewStyle().Padding(1, 2)

	if m.loading && m.dashboard == nil {
		return style.Render("Loading dashboard...")
	}

	if m.err != nil {
		return style.Render(errorText(fmt.Sprintf("Error: %v", m.err)) + "\n\n(r to retry, Esc to go back)")
	}

	if m.dashboard == nil {
		return style.Render("No data.")
	}

	b := m.breakdown()

	tabs := make([]string, 0, 2)
	for _, k := range []record.Kind{record.KindExpense, record.KindIncome} {
		label := " " + k.Title() + " "
		if k == m.kind {
			label = activeStyle("[" + k.Title() + "]")
		}

		tabs = append(tabs, label)
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Today", FormatAmount(b.Windows.Day)),
		card("Last 7 days", FormatAmount(b.Windows.Week)),
		card("Last 30 days", FormatAmount(b.Windows.Month)),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(tabs, "  "),
		"",
		fmt.Sprintf("As of %s", FormatDate(m.dashboard.Reference)),
		cards,
		"",
		renderBar(b.Categories),
		"",
		renderCategories(b.Categories),
	)

	return style.Render(content)
}

func (m DashboardModel) breakdown() report.Breakdown {
	if m.kind == record.KindIncome {
		return m.dashboard.Income
	}

	return m.dashboard.Expense
}

// renderBar draws one coloured segment per category, proportional to its share.
func renderBar(categories []report.CategoryTotal) string {
	var total int64
	for _, c := range categories {
		total += c.Amount
	}

	if total == 0 {
		return lipgloss.NewStyle().Faint(true).Render(strings.Repeat("░", barWidth))
	}

	var (
		sb   strings.Builder
		used int
	)

	for i, c := range categories {
		w := int(c.Amount * barWidth / total)
		if i == len(categories)-1 {
			w = barWidth - used
		}

		if w <= 0 {
			continue
		}

		used += w
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render(strings.Repeat("█", w)))
	}

	return sb.String()
}

func renderCategories(categories []report.CategoryTotal) string {
	if len(categories) == 0 {
		return lipgloss.NewStyle().Faint(true).Render("No records yet.")
	}

	rows := make([]string, 0, len(categories))
	for _, c := range categories {
		bullet := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("●")
		rows = append(rows, fmt.Sprintf("%s %-14s %10s %4d%%", bullet, c.Label, FormatAmount(c.Amount), c.Percentage))
	}

	return strings.Join(rows, "\n")
}

// Messages

type loadDashboardMsg struct {
	dashboard *report.Dashboard
	err       error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	svc, userID, ref := m.reportService, m.userID, m.now()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		d, err := svc.Dashboard(ctx, userID, ref)

		return loadDashboardMsg{dashboard: d, err: err}
	}
}

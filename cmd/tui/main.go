package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tally/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/record"
	"github.com/MrJamesThe3rd/tally/internal/report"
)

const connectTimeout = 10 * time.Second

type model struct {
	appName       string
	userID        string
	recordService *record.Service
	reportService *report.Service
	importService *importer.Service

	currentView View

	dashboardView view.DashboardModel
	calendarView  view.CalendarModel
	inputView     view.InputModel
	recordsView   view.RecordsModel
	importView    view.ImportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewCalendar  View = 2
	ViewInput     View = 3
	ViewRecords   View = 4
	ViewImport    View = 5
)

func initialModel(cfg *config.Config, repo record.Repository) model {
	recSvc := record.NewService(repo)
	repSvc := report.NewService(
		recSvc,
		report.NewPalette(cfg.Report.Palette, uint64(time.Now().UnixNano())),
		cfg.Report.FetchTimeout,
	)
	impSvc := importer.NewService()
	userID := cfg.TUI.UserID

	return model{
		appName:       cfg.App.Name,
		userID:        userID,
		recordService: recSvc,
		reportService: repSvc,
		importService: impSvc,
		currentView:   ViewMenu,
		dashboardView: view.NewDashboardModel(repSvc, userID),
		calendarView:  view.NewCalendarModel(repSvc, userID, time.Now()),
		inputView:     view.NewInputModel(recSvc, userID),
		recordsView:   view.NewRecordsModel(recSvc, userID),
		importView:    view.NewImportModel(recSvc, impSvc, userID),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.reportService, m.userID)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewCalendar
				m.calendarView = view.NewCalendarModel(m.reportService, m.userID, time.Now())

				return m, m.calendarView.Init()
			case "3":
				m.currentView = ViewInput
				return m, m.inputView.Init()
			case "4":
				m.currentView = ViewRecords
				m.recordsView = view.NewRecordsModel(m.recordService, m.userID)

				return m, m.recordsView.Init()
			case "5":
				m.currentView = ViewImport
				return m, m.importView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	case view.RecordsChangedMsg:
		return m.broadcast(msg)
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewCalendar:
		var newModel tea.Model
		newModel, cmd = m.calendarView.Update(msg)
		m.calendarView = newModel.(view.CalendarModel)
	case ViewInput:
		var newModel tea.Model
		newModel, cmd = m.inputView.Update(msg)
		m.inputView = newModel.(view.InputModel)
	case ViewRecords:
		var newModel tea.Model
		newModel, cmd = m.recordsView.Update(msg)
		m.recordsView = newModel.(view.RecordsModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	}

	return m, cmd
}

// broadcast tells the read-only views to reload after a write.
func (m model) broadcast(msg view.RecordsChangedMsg) (tea.Model, tea.Cmd) {
	var (
		cmds     []tea.Cmd
		newModel tea.Model
		cmd      tea.Cmd
	)

	newModel, cmd = m.dashboardView.Update(msg)
	m.dashboardView = newModel.(view.DashboardModel)
	cmds = append(cmds, cmd)

	newModel, cmd = m.calendarView.Update(msg)
	m.calendarView = newModel.(view.CalendarModel)
	cmds = append(cmds, cmd)

	newModel, cmd = m.recordsView.Update(msg)
	m.recordsView = newModel.(view.RecordsModel)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.appName + "\n\n" +
				"1. Dashboard\n" +
				"2. Calendar\n" +
				"3. Add Record\n" +
				"4. Records\n" +
				"5. Import Records\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		current = m.dashboardView
	case ViewCalendar:
		current = m.calendarView
	case ViewInput:
		current = m.inputView
	case ViewRecords:
		current = m.recordsView
	case ViewImport:
		current = m.importView
	default:
		return "Unknown View"
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Render(current.Title())
	help := lipgloss.NewStyle().Faint(true).Render(current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, current.View(), help)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.TUI.UserID == "" {
		slog.Error("TUI_USER_ID is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	repo, closeRepo, err := database.OpenRepository(ctx, cfg)
	cancel()

	if err != nil {
		slog.Error("failed to open record store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	p := tea.NewProgram(initialModel(cfg, repo))
	_, err = p.Run()
	closeRepo()

	if err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

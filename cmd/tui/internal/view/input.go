package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/record"
)

type inputState int

const (
	inputStateForm inputState = iota
	inputStateSaving
	inputStateResult
)

// inputFields holds the form bindings. It lives behind a pointer so the
// bindings survive the model being copied between updates.
type inputFields struct {
	kind    record.Kind
	payment string
	label   string
	amount  string
	comment string
	date    string
}

// InputModel is the form for adding a single income or expense record.
type InputModel struct {
	CommonModel
	recordService *record.Service
	userID        string

	state  inputState
	form   *huh.Form
	fields *inputFields

	status string
	err    error
}

func NewInputModel(svc *record.Service, userID string) InputModel {
	m := InputModel{
		recordService: svc,
		userID:        userID,
	}
	m.reset()

	return m
}

func (m InputModel) Title() string { return "Add Record" }

func (m InputModel) ShortHelp() string {
	if m.state == inputStateResult {
		return "n: add another | Esc: back"
	}

	return "Tab/Enter: next field | Esc: back"
}

func (m InputModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m *InputModel) reset() {
	m.fields = &inputFields{
		kind:    record.KindExpense,
		payment: record.PaymentMethods[0],
		date:    FormatDate(time.Now()),
	}
	m.form = newRecordForm(m.fields)
	m.state = inputStateForm
	m.status = ""
	m.err = nil
}

func newRecordForm(f *inputFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[record.Kind]().
				Title("Type").
				Options(
					huh.NewOption(record.KindExpense.Title(), record.KindExpense),
					huh.NewOption(record.KindIncome.Title(), record.KindIncome),
				).
				Value(&f.kind),

			huh.NewSelect[string]().
				Title("Payment method").
				Options(huh.NewOptions(record.PaymentMethods...)...).
				Value(&f.payment),

			huh.NewSelect[string]().
				Title("Label").
				OptionsFunc(func() []huh.Option[string] {
					return huh.NewOptions(record.Labels(f.kind)...)
				}, &f.kind).
				Value(&f.label),

			huh.NewInput().
				Title("Amount").
				Placeholder("0.00").
				Value(&f.amount).
				Validate(func(s string) error {
					_, err := parseFormAmount(s)
					return err
				}),

			huh.NewInput().
				Title("Comment").
				Value(&f.comment),

			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.date).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
						return errors.New("date must be YYYY-MM-DD")
					}

					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)
}

func parseFormAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New("amount must be a number")
	}

	if !d.IsPositive() {
		return 0, errors.New("amount must be positive")
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

func (m InputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case inputSavedMsg:
		m.state = inputStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Saved %s %s on %s.",
			msg.rec.Label, FormatAmount(msg.rec.Amount), FormatDate(msg.rec.Date))

		return m, func() tea.Msg { return RecordsChangedMsg{Count: 1} }

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if m.state != inputStateSaving {
				m.reset()
			}

			return m, Back
		}

		if m.state == inputStateResult {
			if msg.String() == "n" {
				m.reset()
				return m, m.form.Init()
			}

			return m, nil
		}
	}

	if m.state != inputStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = inputStateSaving

	return m, m.saveCmd()
}

func (m InputModel) View() string {
	style := lipgloss.NewStyle().Padding(1, 2)

	switch m.state {
	case inputStateSaving:
		return style.Render("Saving...")
	case inputStateResult:
		status := successText(m.status)
		if m.err != nil {
			status = errorText(m.status)
		}

		return style.Render(status + "\n\n(n to add another, Esc to go back)")
	}

	panel := lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(48).
		Render("New Record\n\n" + m.form.View())

	return style.Render(panel)
}

// Messages

type inputSavedMsg struct {
	rec *record.Record
	err error
}

func (m InputModel) saveCmd() tea.Cmd {
	svc, userID, f := m.recordService, m.userID, *m.fields

	return func() tea.Msg {
		amount, err := parseFormAmount(f.amount)
		if err != nil {
			return inputSavedMsg{err: err}
		}

		date, err := time.Parse(time.DateOnly, strings.TrimSpace(f.date))
		if err != nil {
			return inputSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		rec, err := svc.Create(ctx, userID, record.CreateParams{
			Kind:          f.kind,
			Amount:        amount,
			Label:         f.label,
			PaymentMethod: f.payment,
			Comment:       f.comment,
			Date:          date,
		})

		return inputSavedMsg{rec: rec, err: err}
	}
}

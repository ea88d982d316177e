package record

import (
	"errors"
	"fmt"
	"time"
)

// Kind selects one of the two record collections.
type Kind string

const (
	KindExpense Kind = "expenses"
	KindIncome  Kind = "income"
)

var (
	ErrMalformed       = errors.New("malformed record")
	ErrInvalid         = errors.New("invalid record")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnknownKind     = errors.New("unknown record kind")
)

// ParseKind accepts the collection names plus their singular forms.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "expenses", "expense":
		return KindExpense, nil
	case "income", "incomes":
		return KindIncome, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// LabelField is the document field holding the record label for this kind.
func (k Kind) LabelField() string {
	if k == KindIncome {
		return "source"
	}

	return "category"
}

// Title is the display name of the kind.
func (k Kind) Title() string {
	switch k {
	case KindIncome:
		return "Income"
	case KindExpense:
		return "Expenses"
	}

	return string(k)
}

// Record is a decoded income or expense entry.
type Record struct {
	ID            string
	Kind          Kind
	Amount        int64 // Amount in cents
	Label         string
	Date          time.Time // Calendar date at UTC midnight
	PaymentMethod string
	Comment       string
}

// Valid reports whether the record can take part in aggregation.
func (r Record) Valid() bool {
	return !r.Date.IsZero() && r.Label != "" && r.Amount >= 0
}

// Option lists offered by the input form.
var (
	PaymentMethods   = []string{"Cash", "Card"}
	ExpenseLabels    = []string{"Shopping", "Grocery", "Food", "Travel"}
	IncomeLabels     = []string{"Salary", "Freelancing", "Investments"}
	defaultPayMethod = "Unknown"
)

// Labels returns the default label choices for the kind.
func Labels(k Kind) []string {
	if k == KindIncome {
		return IncomeLabels
	}

	return ExpenseLabels
}

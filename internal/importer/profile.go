package importer

import (
	"time"

	"github.com/MrJamesThe3rd/tally/internal/record"
)

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountUnsigned means one column whose rows all belong to the requested kind.
	amountUnsigned amountMode = iota
	// amountSigned means one signed column; negative values are expenses.
	amountSigned
	// amountSplit means separate debit and credit columns.
	amountSplit
)

// Profile describes the column layout of one supported CSV export.
// Column names are matched case-insensitively after trimming.
type Profile struct {
	Name       string
	DateCol    string
	LabelCol   string
	AmountMode amountMode
	AmountCol  string // used by amountUnsigned and amountSigned
	DebitCol   string // used by amountSplit
	CreditCol  string // used by amountSplit
	PaymentCol string // optional
	CommentCol string // optional
	parseDate  func(string) (time.Time, bool)
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.LabelCol}

	switch p.AmountMode {
	case amountUnsigned, amountSigned:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// profiles is tried in order; more specific layouts come first.
var profiles = []Profile{
	tallyProfile("category"),
	tallyProfile("source"),
	tallyProfile("label"),
	{
		Name:       "cgd cartão",
		DateCol:    "data",
		LabelCol:   "descrição",
		AmountMode: amountSplit,
		DebitCol:   "débito",
		CreditCol:  "crédito",
		parseDate:  parseBankDate,
	},
	{
		Name:       "cgd extrato",
		DateCol:    "data mov.",
		LabelCol:   "descrição",
		AmountMode: amountSigned,
		AmountCol:  "movimento",
		parseDate:  parseBankDate,
	},
	{
		Name:       "cgd conta",
		DateCol:    "data mov.",
		LabelCol:   "descrição",
		AmountMode: amountSigned,
		AmountCol:  "montante",
		parseDate:  parseBankDate,
	},
}

func tallyProfile(labelCol string) Profile {
	return Profile{
		Name:       "tally/" + labelCol,
		DateCol:    "date",
		LabelCol:   labelCol,
		AmountMode: amountUnsigned,
		AmountCol:  "amount",
		PaymentCol: "payment",
		CommentCol: "comment",
		parseDate:  record.ParseDate,
	}
}

func parseBankDate(s string) (time.Time, bool) {
	t, err := time.Parse("02-01-2006", s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

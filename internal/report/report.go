package report

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/record"
)

// WindowTotals are trailing sums anchored at a reference date. Windows nest.
type WindowTotals struct {
	Day   int64 `json:"day"`
	Week  int64 `json:"week"`
	Month int64 `json:"month"`
}

type CategoryTotal struct {
	Label      string `json:"label"`
	Amount     int64  `json:"amount"`
	Percentage int    `json:"percentage"`
	Color      string `json:"color"`
}

// Breakdown is the result of one aggregation pass over a single kind.
type Breakdown struct {
	Windows    WindowTotals    `json:"windows"`
	Categories []CategoryTotal `json:"categories"`
	Total      int64           `json:"total"`
}

type Dashboard struct {
	Reference time.Time `json:"reference"`
	Expense   Breakdown `json:"expense"`
	Income    Breakdown `json:"income"`
}

type LineItem struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Amount   int64  `json:"amount"`
	IsIncome bool   `json:"is_income"`
}

type DaySummary struct {
	Date         time.Time  `json:"date"`
	TotalIncome  int64      `json:"total_income"`
	TotalExpense int64      `json:"total_expense"`
	Items        []LineItem `json:"items"`
}

const (
	weekDays  = 7
	monthDays = 30
)

// Aggregate buckets records into trailing windows ending at ref and sums them
// per label in first-occurrence order. Each newly seen label gets its colour
// from p.
func Aggregate(records []record.Record, ref time.Time, p Palette) Breakdown {
	ref = record.Day(ref)
	monthStart := ref.AddDate(0, 0, -monthDays)
	weekStart := ref.AddDate(0, 0, -weekDays)

	var (
		out   Breakdown
		index = make(map[string]int)
	)

	out.Categories = []CategoryTotal{}

	for _, r := range records {
		if !r.Valid() {
			continue
		}

		d := record.Day(r.Date)
		if !d.Before(monthStart) && !d.After(ref) {
			out.Windows.Month = addCents(out.Windows.Month, r.Amount)

			if !d.Before(weekStart) {
				out.Windows.Week = addCents(out.Windows.Week, r.Amount)

				if d.Equal(ref) {
					out.Windows.Day = addCents(out.Windows.Day, r.Amount)
				}
			}
		}

		i, ok := index[r.Label]
		if !ok {
			i = len(out.Categories)
			index[r.Label] = i
			out.Categories = append(out.Categories, CategoryTotal{Label: r.Label, Color: p.Color(r.Label)})
		}

		out.Categories[i].Amount = addCents(out.Categories[i].Amount, r.Amount)
		out.Total = addCents(out.Total, r.Amount)
	}

	for i := range out.Categories {
		out.Categories[i].Percentage = percentage(out.Categories[i].Amount, out.Total)
	}

	return out
}

// addCents sums non-negative amounts, saturating at math.MaxInt64.
func addCents(a, b int64) int64 {
	if b > math.MaxInt64-a {
		return math.MaxInt64
	}

	return a + b
}

var hundred = decimal.NewFromInt(100)

// percentage truncates toward zero and is 0 for an empty total. The product
// is taken in decimal since amount*100 overflows int64 for large amounts.
func percentage(amount, total int64) int {
	if total == 0 {
		return 0
	}

	q, _ := decimal.NewFromInt(amount).Mul(hundred).QuoRem(decimal.NewFromInt(total), 0)

	return int(q.IntPart())
}

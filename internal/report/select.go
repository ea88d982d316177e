package report

import (
	"cmp"
	"slices"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/record"
)

// SelectForDate keeps the records dated on target's calendar day. Items list
// expenses before income, each side ordered by record ID.
func SelectForDate(expenses, income []record.Record, target time.Time) DaySummary {
	expenseItems, totalExpense := itemsOn(expenses, target, false)
	incomeItems, totalIncome := itemsOn(income, target, true)

	return DaySummary{
		Date:         record.Day(target),
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
		Items:        append(expenseItems, incomeItems...),
	}
}

func itemsOn(records []record.Record, target time.Time, isIncome bool) ([]LineItem, int64) {
	items := []LineItem{}

	var total int64

	for _, r := range records {
		if !r.Valid() || !record.SameDay(r.Date, target) {
			continue
		}

		items = append(items, LineItem{ID: r.ID, Label: r.Label, Amount: r.Amount, IsIncome: isIncome})
		total += r.Amount
	}

	slices.SortStableFunc(items, func(a, b LineItem) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return items, total
}

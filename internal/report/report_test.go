package report_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/record"
	"github.com/MrJamesThe3rd/tally/internal/report"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func expense(id string, cents int64, label string, d time.Time) record.Record {
	return record.Record{ID: id, Kind: record.KindExpense, Amount: cents, Label: label, Date: d}
}

func income(id string, cents int64, label string, d time.Time) record.Record {
	return record.Record{ID: id, Kind: record.KindIncome, Amount: cents, Label: label, Date: d}
}

func scenarioRecords() []record.Record {
	return []record.Record{
		expense("a", 5000, "Food", date(2024, 1, 1)),
		expense("b", 3000, "Food", date(2024, 1, 1)),
		expense("c", 2000, "Travel", date(2024, 1, 2)),
	}
}

func TestAggregate(t *testing.T) {
	type args struct {
		records []record.Record
		ref     time.Time
	}

	type testCase struct {
		name string
		args args
		want report.Breakdown
	}

	ref := date(2024, 3, 31)

	tests := []testCase{
		{
			name: "TwoCategoriesAcrossTwoDays",
			args: args{records: scenarioRecords(), ref: date(2024, 1, 2)},
			want: report.Breakdown{
				Windows: report.WindowTotals{Day: 2000, Week: 10000, Month: 10000},
				Categories: []report.CategoryTotal{
					{Label: "Food", Amount: 8000, Percentage: 80, Color: "#fab387"},
					{Label: "Travel", Amount: 2000, Percentage: 20, Color: "#89b4fa"},
				},
				Total: 10000,
			},
		},
		{
			name: "Empty",
			args: args{ref: ref},
			want: report.Breakdown{Categories: []report.CategoryTotal{}},
		},
		{
			name: "WindowEdges",
			args: args{
				records: []record.Record{
					expense("month-edge", 100, "Food", date(2024, 3, 1)),
					expense("outside-month", 200, "Food", date(2024, 2, 29)),
					expense("week-edge", 400, "Food", date(2024, 3, 24)),
					expense("outside-week", 800, "Food", date(2024, 3, 23)),
					expense("today", 1600, "Food", time.Date(2024, 3, 31, 18, 45, 0, 0, time.UTC)),
					expense("future", 3200, "Food", date(2024, 4, 1)),
				},
				ref: time.Date(2024, 3, 31, 9, 0, 0, 0, time.UTC),
			},
			want: report.Breakdown{
				Windows: report.WindowTotals{Day: 1600, Week: 2000, Month: 2900},
				Categories: []report.CategoryTotal{
					{Label: "Food", Amount: 6300, Percentage: 100, Color: "#fab387"},
				},
				Total: 6300,
			},
		},
		{
			name: "SkipsInvalidRecords",
			args: args{
				records: []record.Record{
					expense("ok", 100, "Grocery", ref),
					expense("no-label", 100, "", ref),
					expense("no-date", 100, "Grocery", time.Time{}),
					expense("negative", -100, "Grocery", ref),
				},
				ref: ref,
			},
			want: report.Breakdown{
				Windows: report.WindowTotals{Day: 100, Week: 100, Month: 100},
				Categories: []report.CategoryTotal{
					{Label: "Grocery", Amount: 100, Percentage: 100, Color: "#a6e3a1"},
				},
				Total: 100,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := report.Aggregate(tt.args.records, tt.args.ref, report.HashPalette{})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAggregate_Properties(t *testing.T) {
	ref := date(2024, 6, 15)
	records := []record.Record{
		expense("1", 333, "Food", ref),
		expense("2", 333, "Rent", ref.AddDate(0, 0, -3)),
		expense("3", 334, "Travel", ref.AddDate(0, 0, -12)),
		expense("4", 1, "Books", ref.AddDate(0, 0, -40)),
		expense("5", 250, "Food", ref.AddDate(0, 0, -1)),
	}

	got := report.Aggregate(records, ref, report.HashPalette{})

	var inputSum, categorySum int64
	for _, r := range records {
		inputSum += r.Amount
	}

	percentSum := 0
	for _, c := range got.Categories {
		categorySum += c.Amount
		percentSum += c.Percentage

		assert.GreaterOrEqual(t, c.Percentage, 0)
		assert.LessOrEqual(t, c.Percentage, 100)
	}

	assert.Equal(t, inputSum, categorySum)
	assert.Equal(t, inputSum, got.Total)
	assert.LessOrEqual(t, percentSum, 100)
	assert.GreaterOrEqual(t, percentSum, 100-len(got.Categories))

	assert.LessOrEqual(t, got.Windows.Day, got.Windows.Week)
	assert.LessOrEqual(t, got.Windows.Week, got.Windows.Month)

	labels := make([]string, len(got.Categories))
	for i, c := range got.Categories {
		labels[i] = c.Label
	}

	assert.Equal(t, []string{"Food", "Rent", "Travel", "Books"}, labels)
}

func TestAggregate_LargeAmounts(t *testing.T) {
	ref := date(2024, 6, 15)
	half := int64(math.MaxInt64 / 2)

	got := report.Aggregate([]record.Record{
		expense("1", half, "Food", ref),
		expense("2", half, "Travel", ref),
		expense("3", 10, "Food", ref),
	}, ref, report.HashPalette{})

	assert.Equal(t, int64(math.MaxInt64), got.Total)
	assert.Equal(t, int64(math.MaxInt64), got.Windows.Day)
	assert.Equal(t, int64(math.MaxInt64), got.Windows.Month)

	require.Len(t, got.Categories, 2)
	assert.Equal(t, half+10, got.Categories[0].Amount)
	assert.Equal(t, 50, got.Categories[0].Percentage)
	assert.Equal(t, 49, got.Categories[1].Percentage)
}

func TestAggregate_AsksPaletteOncePerLabel(t *testing.T) {
	p := &countingPalette{seen: map[string]int{}}

	report.Aggregate(scenarioRecords(), date(2024, 1, 2), p)

	assert.Equal(t, map[string]int{"Food": 1, "Travel": 1}, p.seen)
}

type countingPalette struct {
	seen map[string]int
}

func (p *countingPalette) Color(label string) string {
	p.seen[label]++
	return "#000000"
}

func TestSelectForDate(t *testing.T) {
	type args struct {
		expenses []record.Record
		income   []record.Record
		target   time.Time
	}

	type testCase struct {
		name string
		args args
		want report.DaySummary
	}

	tests := []testCase{
		{
			name: "ExpensesOnDay",
			args: args{expenses: scenarioRecords(), target: date(2024, 1, 1)},
			want: report.DaySummary{
				Date:         date(2024, 1, 1),
				TotalExpense: 8000,
				Items: []report.LineItem{
					{ID: "a", Label: "Food", Amount: 5000},
					{ID: "b", Label: "Food", Amount: 3000},
				},
			},
		},
		{
			name: "NoMatches",
			args: args{expenses: scenarioRecords(), target: date(2024, 2, 1)},
			want: report.DaySummary{Date: date(2024, 2, 1), Items: []report.LineItem{}},
		},
		{
			name: "BothSidesOrderedByID",
			args: args{
				expenses: []record.Record{
					expense("z", 100, "Food", date(2024, 5, 5)),
					expense("m", 200, "Travel", date(2024, 5, 5)),
				},
				income: []record.Record{
					income("y", 5000, "Salary", date(2024, 5, 5)),
					income("b", 700, "Freelancing", date(2024, 5, 6)),
				},
				target: time.Date(2024, 5, 5, 23, 59, 0, 0, time.UTC),
			},
			want: report.DaySummary{
				Date:         date(2024, 5, 5),
				TotalIncome:  5000,
				TotalExpense: 300,
				Items: []report.LineItem{
					{ID: "m", Label: "Travel", Amount: 200},
					{ID: "z", Label: "Food", Amount: 100},
					{ID: "y", Label: "Salary", Amount: 5000, IsIncome: true},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := report.SelectForDate(tt.args.expenses, tt.args.income, tt.args.target)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHashPalette(t *testing.T) {
	p := report.HashPalette{}

	assert.Equal(t, "#fab387", p.Color("Food"))
	assert.Equal(t, "#fab387", p.Color("Foods"))
	assert.Equal(t, "#89b4fa", p.Color("travel"))
	assert.Equal(t, "#a6e3a1", p.Color("Grocery"))
	assert.Equal(t, "#cba6f7", p.Color("Shopping"))

	first := p.Color("Subscriptions")
	for range 10 {
		assert.Equal(t, first, p.Color("Subscriptions"))
	}

	assert.Regexp(t, `^#[0-9a-f]{6}$`, first)
}

func TestRandomPalette(t *testing.T) {
	a := report.NewRandomPalette(42)
	b := report.NewRandomPalette(42)

	for range 20 {
		ca := a.Color("Food")
		require.Regexp(t, `^#[0-9a-f]{6}$`, ca)
		assert.Equal(t, ca, b.Color("Food"))
	}
}

func TestNewPalette(t *testing.T) {
	assert.IsType(t, report.HashPalette{}, report.NewPalette("hash", 1))
	assert.IsType(t, report.HashPalette{}, report.NewPalette("", 1))
	assert.IsType(t, &report.RandomPalette{}, report.NewPalette("RANDOM", 1))
}

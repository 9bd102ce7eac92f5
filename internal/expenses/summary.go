package expenses

import (
	"fmt"
	"sort"
	"time"

	"expense-ledger/internal/models"

	"github.com/shopspring/decimal"
)

const (
	averageWindowDays = 30
	trendMonths       = 6
	trendDays         = 7
)

// CategoryTotal is the spending of one category.
type CategoryTotal struct {
	Category   models.Category `json:"category"`
	Label      string          `json:"label"`
	Icon       string          `json:"icon"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
}

// PeriodTotal is the spending of one month or one day.
type PeriodTotal struct {
	Key   string          `json:"key"`
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

// Summary aggregates a record collection.
type Summary struct {
	Count        int             `json:"count"`
	Total        decimal.Decimal `json:"total"`
	MonthTotal   decimal.Decimal `json:"monthTotal"`
	DailyAverage decimal.Decimal `json:"dailyAverage"`
	TopCategory  string          `json:"topCategory"`
	Categories   []CategoryTotal `json:"categories"`
	Monthly      []PeriodTotal   `json:"monthly"`
	Daily        []PeriodTotal   `json:"daily"`
}

// Summarize computes the dashboard figures for records as of now: overall and
// current-month totals, the average per day over the last 30 days, category
// breakdown, a six-month trend and the last seven days.
func Summarize(records []models.ExpenseRecord, now time.Time) Summary {
	today := models.DateOf(now)
	windowStart := today.AddDays(-averageWindowDays)

	sum := Summary{
		Count:       len(records),
		Total:       decimal.Zero,
		MonthTotal:  decimal.Zero,
		TopCategory: "-",
		Categories:  categoryTotals(records),
		Monthly:     monthlyTrend(records, today),
		Daily:       dailyTrend(records, today),
	}

	recent := decimal.Zero
	recentCount := 0
	for _, r := range records {
		sum.Total = sum.Total.Add(r.Amount)
		if r.Date.Year() == today.Year() && r.Date.Month() == today.Month() {
			sum.MonthTotal = sum.MonthTotal.Add(r.Amount)
		}
		if !r.Date.Before(windowStart.Time) {
			recent = recent.Add(r.Amount)
			recentCount++
		}
	}

	sum.DailyAverage = decimal.Zero
	if recentCount > 0 {
		sum.DailyAverage = recent.Div(decimal.NewFromInt(averageWindowDays)).Round(2)
	}
	if len(sum.Categories) > 0 {
		sum.TopCategory = sum.Categories[0].Label
	}
	return sum
}

// categoryTotals groups records by category, largest total first.
func categoryTotals(records []models.ExpenseRecord) []CategoryTotal {
	byCategory := make(map[models.Category]*CategoryTotal)
	total := decimal.Zero
	for _, r := range records {
		ct, ok := byCategory[r.Category]
		if !ok {
			def := Lookup(r.Category)
			ct = &CategoryTotal{Category: r.Category, Label: def.Label, Icon: def.Icon, Total: decimal.Zero}
			byCategory[r.Category] = ct
		}
		ct.Total = ct.Total.Add(r.Amount)
		ct.Count++
		total = total.Add(r.Amount)
	}

	out := make([]CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		if total.IsPositive() {
			ct.Percentage = ct.Total.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return catalogIndex(out[i].Category) < catalogIndex(out[j].Category)
	})
	return out
}

func monthlyTrend(records []models.ExpenseRecord, today models.Date) []PeriodTotal {
	out := make([]PeriodTotal, trendMonths)
	index := make(map[string]int, trendMonths)
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < trendMonths; i++ {
		m := first.AddDate(0, i-(trendMonths-1), 0)
		key := m.Format("2006-01")
		out[i] = PeriodTotal{Key: key, Label: m.Format("Jan 2006"), Total: decimal.Zero}
		index[key] = i
	}
	for _, r := range records {
		if i, ok := index[r.Date.Format("2006-01")]; ok {
			out[i].Total = out[i].Total.Add(r.Amount)
		}
	}
	return out
}

func dailyTrend(records []models.ExpenseRecord, today models.Date) []PeriodTotal {
	out := make([]PeriodTotal, trendDays)
	index := make(map[string]int, trendDays)
	for i := 0; i < trendDays; i++ {
		d := today.AddDays(i - (trendDays - 1))
		key := d.String()
		out[i] = PeriodTotal{Key: key, Label: d.Format("2 Jan"), Total: decimal.Zero}
		index[key] = i
	}
	for _, r := range records {
		if i, ok := index[r.Date.String()]; ok {
			out[i].Total = out[i].Total.Add(r.Amount)
		}
	}
	return out
}

// MonthReport is the statistics view of a single month.
type MonthReport struct {
	Year           int                    `json:"year"`
	Month          int                    `json:"month"`
	MonthName      string                 `json:"monthName"`
	Total          decimal.Decimal        `json:"total"`
	Categories     []CategoryTotal        `json:"categories"`
	Expenses       []models.ExpenseRecord `json:"expenses"`
	PrevYear       int                    `json:"prevYear"`
	PrevMonth      int                    `json:"prevMonth"`
	NextYear       int                    `json:"nextYear"`
	NextMonth      int                    `json:"nextMonth"`
	IsCurrentMonth bool                   `json:"isCurrentMonth"`
}

// Month builds the report for year/month, listing its records newest first.
func Month(records []models.ExpenseRecord, year, month int, now time.Time) (MonthReport, error) {
	if month < 1 || month > 12 {
		return MonthReport{}, fmt.Errorf("month %d out of range", month)
	}

	var inMonth []models.ExpenseRecord
	for _, r := range records {
		if r.Date.Year() == year && int(r.Date.Month()) == month {
			inMonth = append(inMonth, r)
		}
	}
	sort.SliceStable(inMonth, func(i, j int) bool { return inMonth[i].Date.After(inMonth[j].Date.Time) })

	total := decimal.Zero
	for _, r := range inMonth {
		total = total.Add(r.Amount)
	}
	if inMonth == nil {
		inMonth = []models.ExpenseRecord{}
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	prev := first.AddDate(0, -1, 0)
	next := first.AddDate(0, 1, 0)

	return MonthReport{
		Year:           year,
		Month:          month,
		MonthName:      time.Month(month).String(),
		Total:          total,
		Categories:     categoryTotals(inMonth),
		Expenses:       inMonth,
		PrevYear:       prev.Year(),
		PrevMonth:      int(prev.Month()),
		NextYear:       next.Year(),
		NextMonth:      int(next.Month()),
		IsCurrentMonth: year == now.Year() && month == int(now.Month()),
	}, nil
}

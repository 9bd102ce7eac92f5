package expenses

import (
	"time"

	"expense-ledger/internal/models"

	"github.com/shopspring/decimal"
)

type sampleEntry struct {
	name     string
	amount   string
	category models.Category
	daysAgo  int
}

var sampleEntries = []sampleEntry{
	{"Groceries", "85.50", models.CategoryFood, 2},
	{"Gas", "45.00", models.CategoryTransport, 1},
	{"Netflix", "15.99", models.CategoryEntertainment, 3},
	{"Electricity Bill", "120.75", models.CategoryBills, 5},
	{"Coffee", "4.50", models.CategoryFood, 0},
	{"New Shoes", "89.99", models.CategoryShopping, 4},
	{"Gym Membership", "35.00", models.CategoryHealth, 10},
	{"Online Course", "199.99", models.CategoryEducation, 15},
	{"Restaurant Dinner", "65.25", models.CategoryFood, 1},
	{"Uber Ride", "18.75", models.CategoryTransport, 0},
}

// SampleRecords returns the demo data set, dated relative to now.
func SampleRecords(now time.Time) []models.ExpenseRecord {
	today := models.DateOf(now)
	records := make([]models.ExpenseRecord, 0, len(sampleEntries))
	for i, e := range sampleEntries {
		records = append(records, models.ExpenseRecord{
			ID:       int64(i + 1),
			Name:     e.name,
			Amount:   decimal.RequireFromString(e.amount),
			Category: e.category,
			Date:     today.AddDays(-e.daysAgo),
		})
	}
	return records
}

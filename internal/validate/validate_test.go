package validate

import (
	"testing"
	"time"

	"expense-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type login struct {
	Username string `json:"username" validate:"min=3"`
	Password string `json:"password" validate:"min=6"`
}

func validRecord() models.ExpenseRecord {
	return models.ExpenseRecord{
		ID:       1,
		Name:     "Coffee",
		Amount:   decimal.RequireFromString("4.50"),
		Category: models.CategoryFood,
		Date:     models.NewDate(2024, time.January, 1),
	}
}

func TestStruct_Valid(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(validRecord()))
	assert.NoError(t, v.Struct(login{Username: "bob", Password: "secret"}))
}

func TestStruct_Messages(t *testing.T) {
	v := New()

	err := v.Struct(login{Username: "al", Password: "12345"})
	require.Error(t, err)
	assert.Equal(t, "username must be at least 3 characters; password must be at least 6 characters", err.Error())

	// Lengths are counted in characters, not bytes.
	assert.Error(t, v.Struct(login{Username: "éé", Password: "secret"}))
	assert.NoError(t, v.Struct(login{Username: "ééé", Password: "secret"}))
}

func TestStruct_ExpenseRecord(t *testing.T) {
	v := New()

	tests := []struct {
		name   string
		mutate func(*models.ExpenseRecord)
		want   string
	}{
		{"missing id", func(r *models.ExpenseRecord) { r.ID = 0 }, "id is required"},
		{"missing name", func(r *models.ExpenseRecord) { r.Name = "" }, "name is required"},
		{"zero amount", func(r *models.ExpenseRecord) { r.Amount = decimal.Zero }, "amount must be greater than 0"},
		{"negative amount", func(r *models.ExpenseRecord) { r.Amount = decimal.NewFromInt(-5) }, "amount must be greater than 0"},
		{"unknown category", func(r *models.ExpenseRecord) { r.Category = "rent" }, "category must be one of"},
		{"missing date", func(r *models.ExpenseRecord) { r.Date = models.Date{} }, "date is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord()
			tt.mutate(&r)
			err := v.Struct(r)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStruct_SmallAmount(t *testing.T) {
	r := validRecord()
	r.Amount = decimal.RequireFromString("0.01")
	assert.NoError(t, New().Struct(r))
}

func TestStruct_Amount(t *testing.T) {
	v := New()

	tests := []struct {
		amount string
		want   string
	}{
		{"0.01", ""},
		{"4.500", ""},
		{"1e3", ""},
		{"1000000000000", ""},
		{"0", "amount must be greater than 0"},
		{"-0.01", "amount must be greater than 0"},
		{"-1e2000000", "amount must be greater than 0"},
		{"0.005", "amount must have at most 2 decimal places"},
		{"1e-400", "amount must have at most 2 decimal places"},
		{"1e-2000000", "amount must have at most 2 decimal places"},
		{"1000000000000.01", "amount must not exceed 1000000000000"},
		{"1e13", "amount must not exceed 1000000000000"},
		{"1e2000000", "amount must not exceed 1000000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			r := validRecord()
			r.Amount = decimal.RequireFromString(tt.amount)
			err := v.Struct(r)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestStruct_BlankName(t *testing.T) {
	v := New()

	for _, name := range []string{" ", "   ", "\t\n"} {
		r := validRecord()
		r.Name = name
		err := v.Struct(r)
		require.Error(t, err, "name %q", name)
		assert.Equal(t, "name must not be blank", err.Error())
	}
}

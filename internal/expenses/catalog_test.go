package expenses

import (
	"testing"

	"expense-ledger/internal/models"
	"expense-ledger/internal/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	defs := Catalog()
	require.Len(t, defs, len(models.Categories))
	for i, c := range models.Categories {
		assert.Equal(t, c, defs[i].ID)
		assert.NotEmpty(t, defs[i].Label)
		assert.NotEmpty(t, defs[i].Icon)
		assert.NotEmpty(t, defs[i].Color)
	}

	defs[0].Label = "changed"
	assert.Equal(t, "Food & Dining", Catalog()[0].Label)
}

func TestLookup(t *testing.T) {
	assert.Equal(t, "Bills & Utilities", Lookup(models.CategoryBills).Label)
	assert.Equal(t, models.CategoryOther, Lookup("groceries").ID)
}

func TestSampleRecords(t *testing.T) {
	records := SampleRecords(summaryNow)
	require.Len(t, records, 10)

	v := validate.New()
	for i, r := range records {
		assert.Equal(t, int64(i+1), r.ID)
		assert.NoError(t, v.Struct(r), r.Name)
	}

	assert.Equal(t, "Coffee", records[4].Name)
	assert.Equal(t, "2026-03-15", records[4].Date.String())
	assert.Equal(t, "Online Course", records[7].Name)
	assert.Equal(t, "2026-02-28", records[7].Date.String())
}

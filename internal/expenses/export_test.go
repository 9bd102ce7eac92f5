package expenses

import (
	"bytes"
	"testing"
	"time"

	"expense-ledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	records := []models.ExpenseRecord{
		record(1, "4.5", models.CategoryFood, "2024-01-01"),
		record(2, "65.25", "misc", "2024-01-02"),
	}
	records[0].Name = "Coffee"
	records[1].Name = "Dinner, downtown"

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	want := "ID,Name,Amount ($),Category,Date\n" +
		"1,Coffee,4.50,Food & Dining,2024-01-01\n" +
		"2,\"Dinner, downtown\",65.25,Other,2024-01-02\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "ID,Name,Amount ($),Category,Date\n", buf.String())
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "expense-tracker-2026-03-15.csv", ExportFileName(summaryNow))
	assert.Equal(t, "expense-tracker-2026-01-02.csv", ExportFileName(time.Date(2026, 1, 2, 23, 59, 0, 0, time.UTC)))
}

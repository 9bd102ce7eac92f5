package expenses

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"expense-ledger/internal/auth"
	"expense-ledger/internal/models"
)

var csvHeader = []string{"ID", "Name", "Amount ($)", "Category", "Date"}

// WriteCSV writes records as CSV with category labels and two-decimal amounts.
func WriteCSV(w io.Writer, records []models.ExpenseRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.Name,
			r.Amount.StringFixed(2),
			Lookup(r.Category).Label,
			r.Date.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFileName is the suggested download name for an export made at now.
func ExportFileName(now time.Time) string {
	return "expense-tracker-" + models.DateOf(now).String() + ".csv"
}

// Export writes the current user's records as CSV. It fails with
// auth.ErrNotAuthenticated when nobody is logged in and ErrNoExpenses when
// there is nothing to write.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	if !s.manager.IsAuthenticated(ctx) {
		return auth.ErrNotAuthenticated
	}
	records := s.manager.CurrentUserRecords(ctx)
	if len(records) == 0 {
		return ErrNoExpenses
	}
	return WriteCSV(w, records)
}

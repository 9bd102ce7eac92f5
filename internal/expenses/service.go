// Package expenses implements the expense operations built on the current
// user's record collection: add, delete, clear, sample data, summaries and
// CSV export.
package expenses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"expense-ledger/internal/auth"
	"expense-ledger/internal/metrics"
	"expense-ledger/internal/models"
	"expense-ledger/internal/validate"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	// ErrExpenseNotFound is returned when deleting an unknown id.
	ErrExpenseNotFound = errors.New("expense not found")
	// ErrNoExpenses is returned when exporting an empty collection.
	ErrNoExpenses = errors.New("no expenses to export")
)

// NewExpense is the input of Add.
type NewExpense struct {
	Name     string          `json:"name" validate:"required,notblank"`
	Amount   decimal.Decimal `json:"amount" validate:"positive,cents,max_amount"`
	Category models.Category `json:"category" validate:"required,oneof=food transport shopping entertainment bills health education other"`
	Date     models.Date     `json:"date" validate:"required"`
}

// Service runs expense operations for whoever is logged in to manager.
type Service struct {
	manager   *auth.Manager
	validator *validate.Validator
	log       zerolog.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock replaces time.Now for ids, sample dates and summaries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService returns a service backed by manager.
func NewService(manager *auth.Manager, opts ...Option) *Service {
	s := &Service{
		manager:   manager,
		validator: validate.New(),
		log:       zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the current user's records, newest first as stored.
func (s *Service) List(ctx context.Context) []models.ExpenseRecord {
	return s.manager.CurrentUserRecords(ctx)
}

// Add validates in and stores it at the front of the collection.
func (s *Service) Add(ctx context.Context, in NewExpense) (models.ExpenseRecord, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator.Struct(in); err != nil {
		return models.ExpenseRecord{}, fmt.Errorf("%w: %v", auth.ErrValidation, err)
	}

	var added models.ExpenseRecord
	_, err := s.manager.UpdateCurrentUserRecords(ctx, func(current []models.ExpenseRecord) ([]models.ExpenseRecord, error) {
		added = models.ExpenseRecord{
			ID:       nextExpenseID(current, s.now()),
			Name:     in.Name,
			Amount:   in.Amount,
			Category: in.Category,
			Date:     in.Date,
		}
		return append([]models.ExpenseRecord{added}, current...), nil
	})
	if err != nil && !errors.Is(err, auth.ErrPersistence) {
		return models.ExpenseRecord{}, err
	}

	metrics.ExpenseMutationsTotal.WithLabelValues("add").Inc()
	s.log.Debug().Int64("expense_id", added.ID).Str("amount", added.Amount.StringFixed(2)).Msg("expense added")
	return added, err
}

// Delete removes the record with id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	_, err := s.manager.UpdateCurrentUserRecords(ctx, func(current []models.ExpenseRecord) ([]models.ExpenseRecord, error) {
		out := make([]models.ExpenseRecord, 0, len(current))
		for _, r := range current {
			if r.ID != id {
				out = append(out, r)
			}
		}
		if len(out) == len(current) {
			return nil, fmt.Errorf("%w: %d", ErrExpenseNotFound, id)
		}
		return out, nil
	})
	return s.mutated("delete", err)
}

// Clear removes every record of the current user.
func (s *Service) Clear(ctx context.Context) error {
	_, err := s.manager.UpdateCurrentUserRecords(ctx, func([]models.ExpenseRecord) ([]models.ExpenseRecord, error) {
		return []models.ExpenseRecord{}, nil
	})
	return s.mutated("clear", err)
}

// Replace overwrites the current user's records.
func (s *Service) Replace(ctx context.Context, records []models.ExpenseRecord) error {
	return s.mutated("replace", s.manager.ReplaceCurrentUserRecords(ctx, records))
}

// LoadSample replaces the current user's records with the sample set.
func (s *Service) LoadSample(ctx context.Context) ([]models.ExpenseRecord, error) {
	records := SampleRecords(s.now())
	err := s.mutated("sample", s.manager.ReplaceCurrentUserRecords(ctx, records))
	if err != nil && !errors.Is(err, auth.ErrPersistence) {
		return nil, err
	}
	return records, err
}

// Summary summarizes the current user's records.
func (s *Service) Summary(ctx context.Context) Summary {
	return Summarize(s.manager.CurrentUserRecords(ctx), s.now())
}

// MonthReport reports on one month of the current user's records.
func (s *Service) MonthReport(ctx context.Context, year, month int) (MonthReport, error) {
	return Month(s.manager.CurrentUserRecords(ctx), year, month, s.now())
}

// Now is the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) mutated(op string, err error) error {
	if err == nil || errors.Is(err, auth.ErrPersistence) {
		metrics.ExpenseMutationsTotal.WithLabelValues(op).Inc()
	}
	return err
}

// nextExpenseID derives an id from the clock, bumped past existing ids.
func nextExpenseID(records []models.ExpenseRecord, now time.Time) int64 {
	id := now.UnixMilli()
	for _, r := range records {
		if r.ID >= id {
			id = r.ID + 1
		}
	}
	return id
}

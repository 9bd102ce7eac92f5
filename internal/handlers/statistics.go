package handlers

import (
	"net/http"
	"strconv"
)

// Summary returns the dashboard figures for the current user.
func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.expenses.Summary(r.Context()))
}

// Statistics returns the report for one month, defaulting to the current one.
func (h *Handlers) Statistics(w http.ResponseWriter, r *http.Request) {
	now := h.expenses.Now()
	year := now.Year()
	month := int(now.Month())

	if y, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil {
		year = y
	}
	if m, err := strconv.Atoi(r.URL.Query().Get("month")); err == nil && m >= 1 && m <= 12 {
		month = m
	}

	report, err := h.expenses.MonthReport(r.Context(), year, month)
	if err != nil {
		h.log.Error().Err(err).Int("year", year).Int("month", month).Msg("month report failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"expense-ledger/internal/auth"
	"expense-ledger/internal/expenses"
	"expense-ledger/internal/models"

	"github.com/rs/zerolog"
)

const (
	// SessionCookieName is the cookie mirroring the session token. The token
	// is informational only; the server never checks it.
	SessionCookieName = "session"

	maxBodyBytes = 1 << 20
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	manager      *auth.Manager
	expenses     *expenses.Service
	log          zerolog.Logger
	secureCookie bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(manager *auth.Manager, svc *expenses.Service, log zerolog.Logger, secureCookie bool) *Handlers {
	return &Handlers{manager: manager, expenses: svc, log: log, secureCookie: secureCookie}
}

// AuthMiddleware rejects requests made while no valid session exists.
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.manager.IsAuthenticated(r.Context()) {
			h.clearSessionCookie(w)
			h.writeResult(w, http.StatusUnauthorized, auth.NewResult("", auth.ErrNotAuthenticated))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles account creation.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !h.decode(w, r, &req) {
		return
	}

	_, err := h.manager.Register(r.Context(), req.Username, req.Password)
	status := http.StatusCreated
	if err != nil && !errors.Is(err, auth.ErrPersistence) {
		status = statusFor(err)
	}
	h.writeResult(w, status, auth.NewResult("Account created. Please log in.", err))
}

// Login handles credential submission and issues the session.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.manager.Login(r.Context(), req.Username, req.Password)
	if err != nil && !errors.Is(err, auth.ErrPersistence) {
		h.writeResult(w, statusFor(err), auth.NewResult("", err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(auth.SessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	res := auth.NewResult("Welcome back, "+session.Username+"!", err)
	res.Session = &session
	h.writeResult(w, http.StatusOK, res)
}

// Logout ends the session.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	err := h.manager.Logout(r.Context())
	h.clearSessionCookie(w)
	h.writeResult(w, http.StatusOK, auth.NewResult("Logged out.", err))
}

type sessionResponse struct {
	Authenticated bool            `json:"authenticated"`
	Session       *models.Session `json:"session,omitempty"`
}

// Session reports the current session, if any.
func (h *Handlers) Session(w http.ResponseWriter, r *http.Request) {
	var resp sessionResponse
	if s, ok := h.manager.CurrentSession(r.Context()); ok {
		resp = sessionResponse{Authenticated: true, Session: &s}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// Categories lists the category catalogue.
func (h *Handlers) Categories(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, expenses.Catalog())
}

// ListExpenses returns the current user's records.
func (h *Handlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.expenses.List(r.Context()))
}

type expenseResponse struct {
	auth.Result
	Expense *models.ExpenseRecord `json:"expense,omitempty"`
}

// CreateExpense adds one record.
func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var in expenses.NewExpense
	if !h.decode(w, r, &in) {
		return
	}

	added, err := h.expenses.Add(r.Context(), in)
	if err != nil && !errors.Is(err, auth.ErrPersistence) {
		h.writeResult(w, statusFor(err), failure(err))
		return
	}
	h.writeJSON(w, http.StatusCreated, expenseResponse{
		Result:  auth.NewResult("Expense added successfully!", err),
		Expense: &added,
	})
}

// ReplaceExpenses overwrites the whole collection.
func (h *Handlers) ReplaceExpenses(w http.ResponseWriter, r *http.Request) {
	var records []models.ExpenseRecord
	if !h.decode(w, r, &records) {
		return
	}
	h.respond(w, "Expenses saved.", h.expenses.Replace(r.Context(), records))
}

// DeleteExpense removes one record by id.
func (h *Handlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeResult(w, http.StatusBadRequest, auth.Result{Message: "Invalid expense id"})
		return
	}
	h.respond(w, "Expense deleted successfully!", h.expenses.Delete(r.Context(), id))
}

// ClearExpenses removes every record.
func (h *Handlers) ClearExpenses(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "All data cleared successfully!", h.expenses.Clear(r.Context()))
}

// LoadSample replaces the collection with the demo data.
func (h *Handlers) LoadSample(w http.ResponseWriter, r *http.Request) {
	_, err := h.expenses.LoadSample(r.Context())
	h.respond(w, "Sample data loaded successfully!", err)
}

// ExportCSV streams the collection as a CSV download.
func (h *Handlers) ExportCSV(w http.ResponseWriter, r *http.Request) {
	if len(h.expenses.List(r.Context())) == 0 {
		h.writeResult(w, http.StatusNotFound, failure(expenses.ErrNoExpenses))
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+expenses.ExportFileName(h.expenses.Now())+`"`)
	if err := h.expenses.Export(r.Context(), w); err != nil {
		h.log.Error().Err(err).Msg("csv export failed")
	}
}

func (h *Handlers) respond(w http.ResponseWriter, okMessage string, err error) {
	if err != nil && !errors.Is(err, auth.ErrPersistence) {
		h.writeResult(w, statusFor(err), failure(err))
		return
	}
	h.writeResult(w, http.StatusOK, auth.NewResult(okMessage, err))
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeResult(w, http.StatusBadRequest, auth.Result{Message: "Invalid request body"})
		return false
	}
	return true
}

func (h *Handlers) writeResult(w http.ResponseWriter, status int, res auth.Result) {
	h.writeJSON(w, status, res)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("failed to write response")
	}
}

// failure renders an error Result, covering the expense errors auth.Message
// does not know about.
func failure(err error) auth.Result {
	switch {
	case errors.Is(err, expenses.ErrExpenseNotFound):
		return auth.Result{Message: "Expense not found."}
	case errors.Is(err, expenses.ErrNoExpenses):
		return auth.Result{Message: "No data to export!"}
	default:
		return auth.NewResult("", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrDuplicateUser):
		return http.StatusConflict
	case errors.Is(err, auth.ErrNotFound), errors.Is(err, expenses.ErrExpenseNotFound),
		errors.Is(err, expenses.ErrNoExpenses):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidCredential), errors.Is(err, auth.ErrNotAuthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Package auth is the session manager: registration, login, logout, lazy
// session expiry, and access to the logged-in user's expense records.
//
// One Manager corresponds to one storage instance, which holds at most one
// session. Every public method takes the manager's lock, so operations run
// one at a time to completion.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"expense-ledger/internal/credstore"
	"expense-ledger/internal/metrics"
	"expense-ledger/internal/models"
	"expense-ledger/internal/storage"
	"expense-ledger/internal/validate"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// SessionDuration is how long a session lasts after login.
	SessionDuration = 24 * time.Hour
	// SessionKey is the key of the persisted session, relative to the namespace.
	SessionKey = "session"
)

type credentials struct {
	Username string `json:"username" validate:"min=3"`
	Password string `json:"password" validate:"min=6"`
}

// Manager owns the session state of one storage instance.
type Manager struct {
	mu         sync.Mutex
	store      *credstore.Store
	kv         storage.KV
	sessionKey string
	log        zerolog.Logger
	now        func() time.Time
	newToken   func() string
	validator  *validate.Validator

	session       *models.Session
	sessionLoaded bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithTokenSource replaces the session token generator.
func WithTokenSource(fn func() string) Option {
	return func(m *Manager) { m.newToken = fn }
}

// NewManager returns a manager persisting users through store and the session
// under namespace+SessionKey in kv.
func NewManager(store *credstore.Store, kv storage.KV, namespace string, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		kv:         kv,
		sessionKey: namespace + SessionKey,
		log:        zerolog.Nop(),
		now:        func() time.Time { return time.Now().UTC() },
		newToken:   uuid.NewString,
		validator:  validate.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init loads the user document and the persisted session into memory.
func (m *Manager) Init(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.LoadAll(ctx)
	m.loadSession(ctx)
}

// Reload discards in-memory state and re-reads storage, picking up writes
// made by other processes sharing the store.
func (m *Manager) Reload(ctx context.Context) {
	m.Init(ctx)
}

// Register creates an account with an empty record collection. It does not
// log the new user in.
func (m *Manager) Register(ctx context.Context, username, password string) (models.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	username = strings.TrimSpace(username)
	if err := m.validator.Struct(credentials{Username: username, Password: password}); err != nil {
		metrics.AuthOutcomesTotal.WithLabelValues("register", "validation").Inc()
		return models.UserRecord{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	users := m.store.Users(ctx)
	if credstore.IndexByUsername(users, username) >= 0 {
		metrics.AuthOutcomesTotal.WithLabelValues("register", "duplicate").Inc()
		return models.UserRecord{}, fmt.Errorf("%w: %s", ErrDuplicateUser, username)
	}

	now := m.now()
	user := models.UserRecord{
		ID:         nextUserID(users, now),
		Username:   username,
		Credential: credstore.DeriveCredential(password, now),
		Records:    []models.ExpenseRecord{},
		CreatedAt:  now,
	}
	users = append(users, user)

	metrics.AuthOutcomesTotal.WithLabelValues("register", "success").Inc()
	m.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")

	if err := m.store.SaveAll(ctx, users); err != nil {
		return user, fmt.Errorf("register %s: %w", username, err)
	}
	return user, nil
}

// Login verifies the credentials and issues a new session, replacing any
// existing one. Attempts are not rate limited.
func (m *Manager) Login(ctx context.Context, username, password string) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := m.store.Users(ctx)
	i := credstore.IndexByUsername(users, username)
	if i < 0 {
		metrics.AuthOutcomesTotal.WithLabelValues("login", "not_found").Inc()
		return models.Session{}, fmt.Errorf("%w: %s", ErrNotFound, strings.TrimSpace(username))
	}
	if !credstore.VerifyCredential(password, users[i].Credential) {
		metrics.AuthOutcomesTotal.WithLabelValues("login", "invalid_credential").Inc()
		m.log.Info().Int64("user_id", users[i].ID).Msg("login rejected")
		return models.Session{}, ErrInvalidCredential
	}

	now := m.now()
	users[i].LastLoginAt = &now
	session := models.Session{
		UserID:    users[i].ID,
		Username:  users[i].Username,
		Token:     m.newToken(),
		ExpiresAt: now.Add(SessionDuration),
	}
	m.session = &session
	m.sessionLoaded = true

	metrics.AuthOutcomesTotal.WithLabelValues("login", "success").Inc()
	m.log.Info().Int64("user_id", session.UserID).Time("expires_at", session.ExpiresAt).Msg("user logged in")

	saveErr := m.store.SaveAll(ctx, users)
	if err := m.saveSession(ctx, session); err != nil && saveErr == nil {
		saveErr = err
	}
	if saveErr != nil {
		return session, fmt.Errorf("login %s: %w", session.Username, saveErr)
	}
	return session, nil
}

// Logout drops the current session. Logging out with no session is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	metrics.LogoutsTotal.Inc()
	if m.session != nil {
		m.log.Info().Int64("user_id", m.session.UserID).Msg("user logged out")
	}
	return m.clearSession(ctx)
}

// CurrentSession returns the active session. An expired session is removed
// from storage and reported as absent.
func (m *Manager) CurrentSession(ctx context.Context) (models.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentSession(ctx)
}

// IsAuthenticated reports whether a valid session exists.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	_, ok := m.CurrentSession(ctx)
	return ok
}

// CurrentUserRecords returns the logged-in user's records, or an empty slice
// when nobody is logged in or the session's user no longer exists.
func (m *Manager) CurrentUserRecords(ctx context.Context) []models.ExpenseRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.currentSession(ctx)
	if !ok {
		return []models.ExpenseRecord{}
	}
	user, ok := m.store.FindByID(ctx, session.UserID)
	if !ok {
		m.log.Warn().Int64("user_id", session.UserID).Msg("session refers to a missing user")
		return []models.ExpenseRecord{}
	}
	return user.Records
}

// ReplaceCurrentUserRecords overwrites the logged-in user's records with
// records and persists the document.
func (m *Manager) ReplaceCurrentUserRecords(ctx context.Context, records []models.ExpenseRecord) error {
	_, err := m.UpdateCurrentUserRecords(ctx, func([]models.ExpenseRecord) ([]models.ExpenseRecord, error) {
		return records, nil
	})
	return err
}

// UpdateCurrentUserRecords applies fn to the logged-in user's records and
// persists the result. fn runs under the manager's lock; if it fails nothing
// is written.
func (m *Manager) UpdateCurrentUserRecords(
	ctx context.Context,
	fn func(current []models.ExpenseRecord) ([]models.ExpenseRecord, error),
) ([]models.ExpenseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.currentSession(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	users := m.store.Users(ctx)
	i := credstore.IndexByID(users, session.UserID)
	if i < 0 {
		return nil, fmt.Errorf("%w: user %d no longer exists", ErrNotAuthenticated, session.UserID)
	}

	records, err := fn(users[i].Records)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.ExpenseRecord{}
	}
	if err := m.validateRecords(records); err != nil {
		return nil, err
	}

	users[i].Records = records
	if err := m.store.SaveAll(ctx, users); err != nil {
		return records, fmt.Errorf("save records for %s: %w", session.Username, err)
	}
	return records, nil
}

func (m *Manager) validateRecords(records []models.ExpenseRecord) error {
	seen := make(map[int64]struct{}, len(records))
	for _, r := range records {
		if err := m.validator.Struct(r); err != nil {
			return fmt.Errorf("%w: record %d: %v", ErrValidation, r.ID, err)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("%w: duplicate record id %d", ErrValidation, r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}

func (m *Manager) currentSession(ctx context.Context) (models.Session, bool) {
	if !m.sessionLoaded {
		m.loadSession(ctx)
	}
	if m.session == nil {
		return models.Session{}, false
	}
	if m.session.Expired(m.now()) {
		metrics.SessionsExpiredTotal.Inc()
		m.log.Info().Int64("user_id", m.session.UserID).Msg("session expired")
		_ = m.clearSession(ctx)
		return models.Session{}, false
	}
	return *m.session, true
}

// loadSession reads the persisted session. Unreadable or malformed sessions
// count as absent.
func (m *Manager) loadSession(ctx context.Context) {
	m.session = nil
	m.sessionLoaded = true

	raw, found, err := m.kv.Get(ctx, m.sessionKey)
	if err != nil {
		m.log.Warn().Err(err).Str("key", m.sessionKey).Msg("session unreadable")
		return
	}
	if !found {
		return
	}
	var s models.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil || s.UserID == 0 {
		metrics.CorruptDocumentsTotal.WithLabelValues(SessionKey).Inc()
		m.log.Warn().Err(err).Str("key", m.sessionKey).Msg("session corrupt, ignoring")
		return
	}
	m.session = &s
}

func (m *Manager) saveSession(ctx context.Context, s models.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: encode session: %v", ErrPersistence, err)
	}
	if err := m.kv.Set(ctx, m.sessionKey, string(raw)); err != nil {
		metrics.PersistenceFailuresTotal.WithLabelValues(SessionKey).Inc()
		m.log.Error().Err(err).Msg("failed to save session")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

func (m *Manager) clearSession(ctx context.Context) error {
	m.session = nil
	m.sessionLoaded = true
	if err := m.kv.Remove(ctx, m.sessionKey); err != nil {
		metrics.PersistenceFailuresTotal.WithLabelValues(SessionKey).Inc()
		m.log.Error().Err(err).Msg("failed to remove session")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// nextUserID derives an id from the clock, bumped past existing ids so ids
// stay unique and increasing.
func nextUserID(users []models.UserRecord, now time.Time) int64 {
	id := now.UnixMilli()
	for _, u := range users {
		if u.ID >= id {
			id = u.ID + 1
		}
	}
	return id
}

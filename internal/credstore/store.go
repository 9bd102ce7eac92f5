// Package credstore keeps the username → {credential, records} mapping as a
// single JSON document in a storage.KV. The document is read fully into
// memory on first access and written back in full on every save; the last
// writer wins.
//
// A Store is not safe for concurrent use. auth.Manager serializes access.
package credstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"expense-ledger/internal/metrics"
	"expense-ledger/internal/models"
	"expense-ledger/internal/storage"

	"github.com/rs/zerolog"
)

// ErrPersistence is returned when the storage backend rejects a write.
var ErrPersistence = errors.New("could not save data")

// UsersKey is the key of the user document, relative to the namespace.
const UsersKey = "users"

// Store is the credential store.
type Store struct {
	kv     storage.KV
	key    string
	log    zerolog.Logger
	users  []models.UserRecord
	loaded bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for fail-soft load and save reports.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New returns a store keeping its document under namespace+UsersKey.
func New(kv storage.KV, namespace string, opts ...Option) *Store {
	s := &Store{kv: kv, key: namespace + UsersKey, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadAll reads and decodes the document, replacing the in-memory copy.
// Missing, unreadable, and corrupt documents all yield an empty collection.
func (s *Store) LoadAll(ctx context.Context) []models.UserRecord {
	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("user document unreadable, starting empty")
		found = false
	}

	doc := DecodeDocument(raw, found)
	switch doc.State {
	case DocumentCorrupt:
		metrics.CorruptDocumentsTotal.WithLabelValues(UsersKey).Inc()
		s.log.Warn().Err(doc.Err).Str("key", s.key).Msg("user document corrupt, starting empty")
		s.users = []models.UserRecord{}
	case DocumentMissing:
		s.users = []models.UserRecord{}
	default:
		s.users = doc.Users
	}
	s.loaded = true
	return cloneUsers(s.users)
}

// SaveAll replaces the in-memory collection with users and writes it back.
// The in-memory copy is kept even when the write fails; the returned error
// then wraps ErrPersistence.
func (s *Store) SaveAll(ctx context.Context, users []models.UserRecord) error {
	s.users = cloneUsers(users)
	s.loaded = true

	raw, err := EncodeDocument(s.users)
	if err != nil {
		return fmt.Errorf("%w: encode users: %v", ErrPersistence, err)
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		metrics.PersistenceFailuresTotal.WithLabelValues(UsersKey).Inc()
		s.log.Error().Err(err).Str("key", s.key).Int("bytes", len(raw)).Msg("failed to save user document")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// Users returns the in-memory collection, loading it on first access.
func (s *Store) Users(ctx context.Context) []models.UserRecord {
	if !s.loaded {
		return s.LoadAll(ctx)
	}
	return cloneUsers(s.users)
}

// FindByUsername looks a user up case-insensitively.
func (s *Store) FindByUsername(ctx context.Context, name string) (models.UserRecord, bool) {
	users := s.Users(ctx)
	if i := IndexByUsername(users, name); i >= 0 {
		return users[i], true
	}
	return models.UserRecord{}, false
}

// FindByID looks a user up by id.
func (s *Store) FindByID(ctx context.Context, id int64) (models.UserRecord, bool) {
	users := s.Users(ctx)
	if i := IndexByID(users, id); i >= 0 {
		return users[i], true
	}
	return models.UserRecord{}, false
}

// NormalizeUsername is the form usernames are compared in.
func NormalizeUsername(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// IndexByUsername returns the index of name in users, or -1.
func IndexByUsername(users []models.UserRecord, name string) int {
	want := NormalizeUsername(name)
	for i, u := range users {
		if NormalizeUsername(u.Username) == want {
			return i
		}
	}
	return -1
}

// IndexByID returns the index of the user with id, or -1.
func IndexByID(users []models.UserRecord, id int64) int {
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func cloneUsers(users []models.UserRecord) []models.UserRecord {
	out := make([]models.UserRecord, len(users))
	for i, u := range users {
		out[i] = u
		out[i].Records = append([]models.ExpenseRecord{}, u.Records...)
		if u.LastLoginAt != nil {
			t := *u.LastLoginAt
			out[i].LastLoginAt = &t
		}
	}
	return out
}

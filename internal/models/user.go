package models

import "time"

// UserRecord is a registered account together with the expenses it owns.
type UserRecord struct {
	ID          int64           `json:"id"`
	Username    string          `json:"username"`
	Credential  string          `json:"credential"`
	Records     []ExpenseRecord `json:"records"`
	CreatedAt   time.Time       `json:"createdAt"`
	LastLoginAt *time.Time      `json:"lastLoginAt"`
}

// Session is the single active login of a storage instance.
type Session struct {
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

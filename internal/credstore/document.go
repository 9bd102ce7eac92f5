package credstore

import (
	"encoding/json"

	"expense-ledger/internal/models"
)

// DocumentState tags the outcome of decoding the persisted user document.
type DocumentState int

const (
	DocumentMissing DocumentState = iota
	DocumentCorrupt
	DocumentValid
)

func (s DocumentState) String() string {
	switch s {
	case DocumentMissing:
		return "missing"
	case DocumentCorrupt:
		return "corrupt"
	case DocumentValid:
		return "valid"
	default:
		return "unknown"
	}
}

// Document is the decoded user document. Users is only meaningful when State
// is DocumentValid; Err is set when State is DocumentCorrupt.
type Document struct {
	State DocumentState
	Users []models.UserRecord
	Err   error
}

// DecodeDocument parses raw as a JSON array of user records. found is the
// presence flag returned by the storage lookup.
func DecodeDocument(raw string, found bool) Document {
	if !found {
		return Document{State: DocumentMissing}
	}
	var users []models.UserRecord
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return Document{State: DocumentCorrupt, Err: err}
	}
	if users == nil {
		users = []models.UserRecord{}
	}
	for i := range users {
		if users[i].Records == nil {
			users[i].Records = []models.ExpenseRecord{}
		}
	}
	return Document{State: DocumentValid, Users: users}
}

// EncodeDocument serializes the full user collection.
func EncodeDocument(users []models.UserRecord) (string, error) {
	if users == nil {
		users = []models.UserRecord{}
	}
	b, err := json.Marshal(users)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

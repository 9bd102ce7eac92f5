package credstore

import (
	"testing"
	"time"

	"expense-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDocument(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		found     bool
		wantState DocumentState
		wantUsers int
	}{
		{"absent", "", false, DocumentMissing, 0},
		{"empty string", "", true, DocumentCorrupt, 0},
		{"not json", "{not json", true, DocumentCorrupt, 0},
		{"wrong shape", `{"users":[]}`, true, DocumentCorrupt, 0},
		{"null", "null", true, DocumentValid, 0},
		{"empty array", "[]", true, DocumentValid, 0},
		{"one user", `[{"id":1,"username":"alice","credential":"x.y","records":[]}]`, true, DocumentValid, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := DecodeDocument(tt.raw, tt.found)
			assert.Equal(t, tt.wantState, doc.State)
			assert.Len(t, doc.Users, tt.wantUsers)
			if tt.wantState == DocumentCorrupt {
				assert.Error(t, doc.Err)
			} else {
				assert.NoError(t, doc.Err)
			}
			if tt.wantState == DocumentValid {
				assert.NotNil(t, doc.Users)
			}
		})
	}
}

func TestDecodeDocument_NilRecords(t *testing.T) {
	doc := DecodeDocument(`[{"id":1,"username":"alice","credential":"x.y"}]`, true)
	require.Equal(t, DocumentValid, doc.State)
	require.Len(t, doc.Users, 1)
	assert.NotNil(t, doc.Users[0].Records)
	assert.Empty(t, doc.Users[0].Records)
}

func TestDocumentStateString(t *testing.T) {
	assert.Equal(t, "missing", DocumentMissing.String())
	assert.Equal(t, "corrupt", DocumentCorrupt.String())
	assert.Equal(t, "valid", DocumentValid.String())
	assert.Equal(t, "unknown", DocumentState(42).String())
}

func TestEncodeDocument(t *testing.T) {
	raw, err := EncodeDocument(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	login := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	users := []models.UserRecord{{
		ID:          1,
		Username:    "alice",
		Credential:  DeriveCredential("secret", login),
		CreatedAt:   time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		LastLoginAt: &login,
		Records: []models.ExpenseRecord{{
			ID:       7,
			Name:     "Coffee",
			Amount:   decimal.RequireFromString("4.5"),
			Category: models.CategoryFood,
			Date:     models.NewDate(2026, time.March, 1),
		}},
	}}

	raw, err = EncodeDocument(users)
	require.NoError(t, err)

	doc := DecodeDocument(raw, true)
	require.Equal(t, DocumentValid, doc.State)
	require.Len(t, doc.Users, 1)

	got := doc.Users[0]
	assert.Equal(t, users[0].Username, got.Username)
	assert.Equal(t, users[0].Credential, got.Credential)
	assert.True(t, users[0].CreatedAt.Equal(got.CreatedAt))
	require.NotNil(t, got.LastLoginAt)
	assert.True(t, login.Equal(*got.LastLoginAt))
	require.Len(t, got.Records, 1)
	assert.Equal(t, "Coffee", got.Records[0].Name)
	assert.True(t, got.Records[0].Amount.Equal(decimal.RequireFromString("4.50")))
	assert.Equal(t, "2026-03-01", got.Records[0].Date.String())

	// Encoding is stable across a decode.
	again, err := EncodeDocument(doc.Users)
	require.NoError(t, err)
	assert.Equal(t, raw, again)
}

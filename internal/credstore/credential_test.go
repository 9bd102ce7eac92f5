package credstore

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		in   string
		want int32
	}{
		{"", 0},
		{"a", 97},
		{"Aa", 2112},
		{"hello world", 1794106052},
		// Wraps around to the smallest int32.
		{"polygenelubricants", -2147483648},
		// Astral characters count as two UTF-16 code units.
		{"😀", 1772899},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, checksum(tt.in), "checksum(%q)", tt.in)
	}
}

func TestDeriveCredential(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	cred := DeriveCredential("secret", now)

	prefix, suffix, ok := strings.Cut(cred, ".")
	assert.True(t, ok)
	assert.Equal(t, strconv.FormatInt(int64(checksum("secret"+Salt)), 36), prefix)
	assert.Equal(t, strconv.FormatInt(1700000000000, 36), suffix)
}

func TestVerifyCredential(t *testing.T) {
	stored := DeriveCredential("secret", time.Now())

	assert.True(t, VerifyCredential("secret", stored))
	assert.False(t, VerifyCredential("Secret", stored))
	assert.False(t, VerifyCredential("", stored))
	assert.False(t, VerifyCredential("secret", ""))
}

func TestVerifyCredential_IgnoresTimestamp(t *testing.T) {
	a := DeriveCredential("secret", time.UnixMilli(1))
	b := DeriveCredential("secret", time.UnixMilli(1700000000000))

	assert.NotEqual(t, a, b)
	assert.True(t, VerifyCredential("secret", a))
	assert.True(t, VerifyCredential("secret", b))
}

func TestVerifyCredential_AcceptsCollisions(t *testing.T) {
	// Equal-length strings with equal checksums keep colliding after the
	// salt is appended.
	assert.Equal(t, checksum("AaAaAa"), checksum("BBBBBB"))

	stored := DeriveCredential("AaAaAa", time.Now())
	assert.True(t, VerifyCredential("BBBBBB", stored))
}

func TestVerifyCredential_NoSeparator(t *testing.T) {
	stored := encodedChecksum("secret")
	assert.True(t, VerifyCredential("secret", stored))
	assert.False(t, VerifyCredential("other1", stored))
}

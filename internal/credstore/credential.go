package credstore

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf16"
)

// Salt is mixed into every credential checksum.
const Salt = "expense-tracker-salt-v1"

const credentialSeparator = "."

// checksum is the 32-bit multiply-by-31 rolling hash over UTF-16 code units.
// It is not a cryptographic hash: collisions are easy to find and the value
// can be brute-forced.
func checksum(s string) int32 {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(u)
	}
	return h
}

func encodedChecksum(password string) string {
	return strconv.FormatInt(int64(checksum(password+Salt)), 36)
}

// DeriveCredential returns the stored form of password: the base-36 checksum
// of password+Salt, a separator, and the base-36 millisecond timestamp.
func DeriveCredential(password string, now time.Time) string {
	return encodedChecksum(password) + credentialSeparator + strconv.FormatInt(now.UnixMilli(), 36)
}

// VerifyCredential reports whether password matches stored. Only the checksum
// prefix is compared; the timestamp suffix is ignored, so two passwords with
// the same checksum both verify.
func VerifyCredential(password, stored string) bool {
	prefix := stored
	if i := strings.LastIndex(stored, credentialSeparator); i >= 0 {
		prefix = stored[:i]
	}
	return prefix == encodedChecksum(password)
}

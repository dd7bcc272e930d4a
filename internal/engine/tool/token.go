package tool

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/pkg/errors"
)

// InviteTokenBytes invitation token entropy, rendered as 64 hex chars.
const InviteTokenBytes = 32

// RandomHex returns n bytes from the system CSPRNG as lower-case hex.
func RandomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "read random bytes")
	}
	return hex.EncodeToString(buf), nil
}

// IsHexToken reports whether s is exactly size lower-case hex chars.
func IsHexToken(s string, size int) bool {
	if len(s) != size {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// NewResetToken returns a 64-hex-char single-use token for password
// reset links.
func NewResetToken() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID returns a prefixed identifier backed by 7 bytes of crypto/rand
// entropy (14 hex chars), e.g. "pay_9f2c41d08ab3e7". Collision probability
// is negligible, so callers insert without an existence check.
func NewID(prefix string) string {
	buf := make([]byte, 7)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return prefix + hex.EncodeToString(buf)
}

package random

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewRandomString returns a lowercase-hex string of the given length built
// from crypto/rand bytes. Server seeds must come from here: predictable seed
// material would let the operator be accused of (or actually commit) outcome
// steering.
func NewRandomString(length int) (string, error) {
	const op = "random.NewRandomString"

	buf := make([]byte, (length+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return hex.EncodeToString(buf)[:length], nil
}

package service

import (
	"crypto/rand"
	"fmt"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

// generateCode returns a 6-character code over [A-Z0-9], uniformly random.
// Bytes at or above the largest multiple of the alphabet size are rejected
// to keep the distribution uniform. There is deliberately no collision
// check against existing unexpired codes; the schema's UNIQUE(auth_id)
// resolves the (rare) clash by replacing the older row.
func generateCode() (string, error) {
	// 252 is the largest multiple of len(codeAlphabet) that fits a byte.
	const limit = 252

	out := make([]byte, 0, codeLength)
	buf := make([]byte, codeLength*2)

	for len(out) < codeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(out) == codeLength {
				break
			}
		}
	}

	return string(out), nil
}

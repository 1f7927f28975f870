package normalization

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Normalize lowercases the input, collapses whitespace runs to single spaces
// and trims leading/trailing whitespace. Formatting noise must not change the
// content hash, so every hash and signature computation goes through here.
func Normalize(input string) string {
	lowered := strings.ToLower(strings.TrimSpace(input))
	return strings.Join(strings.Fields(lowered), " ")
}

// ContentHash returns the hex-encoded SHA-256 digest of the normalized input.
// Deterministic across platforms; used as the embedding cache key component.
func ContentHash(input string) string {
	sum := sha256.Sum256([]byte(Normalize(input)))
	return hex.EncodeToString(sum[:])
}

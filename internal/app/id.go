package app

import (
	"crypto/rand"
	"encoding/hex"
)

// generateID produces a random 32-char hex identifier for statuses, edges,
// entities and ledger records.
func generateID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// Short returns the first 12 hex characters.
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// ComputeOutcomeHash fingerprints an ordered binary outcome sequence.
// Two sequences hash equal only if they have the same length and order.
func ComputeOutcomeHash(outcomes []bool) Hash {
	data := make([]byte, len(outcomes))
	for i, o := range outcomes {
		if o {
			data[i] = '1'
		} else {
			data[i] = '0'
		}
	}
	return NewHash(data)
}

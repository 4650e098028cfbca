package store

import "github.com/segmentio/ksuid"

// GenerateID returns a timestamp prefix followed by 128 random bits.
// Ids within the same second are unordered; do not sort by them.
func GenerateID() string {
	return ksuid.New().String()
}

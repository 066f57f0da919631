package utils

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// GenerateLocalJournalID generates a cryptographically random journal id in
// the local-draft id space. Local-draft ids are strictly negative so they can
// never collide with remote journal ids, which the remote ledger assigns from
// a positive sequence.
func GenerateLocalJournalID() (int64, error) {
	n, err := randomPositiveInt63()
	if err != nil {
		return 0, err
	}
	return -n, nil
}

// GenerateMasterID generates a random positive master id used to correlate
// the draft legs of one not-yet-submitted group.
func GenerateMasterID() (int64, error) {
	return randomPositiveInt63()
}

func randomPositiveInt63() (int64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("failed to read random bytes: %w", err)
	}
	n := int64(binary.BigEndian.Uint64(b[:]) >> 1) // clear the sign bit
	if n == 0 {
		n = 1
	}
	return n, nil
}

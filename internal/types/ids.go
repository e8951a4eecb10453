package types

import (
	"time"

	"github.com/google/uuid"
)

// PassID identifies one rule-processor pass over a single lead event.
// Every activity record and log line produced by a pass carries the same
// pass ID, which is how operators correlate a burst of records back to
// the event that caused them.
type PassID string

// NewPassID generates a UUIDv7 pass identifier. Time-ordering keeps pass
// IDs sortable by when the event was processed.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewPassID() PassID {
	return PassID(uuid.Must(uuid.NewV7()).String())
}

// ParsePassID validates and converts a string to PassID.
// Rejects malformed UUIDs to prevent invalid IDs from entering the system.
func ParsePassID(s string) (PassID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return PassID(s), nil
}

// PassIDTime extracts the timestamp embedded in a UUIDv7 pass ID.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func PassIDTime(id PassID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}

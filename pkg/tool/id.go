package tool

import "github.com/google/uuid"

// NewID returns a UUIDv7. Ids sort by creation time, which the current-membership
// tie-break relies on.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

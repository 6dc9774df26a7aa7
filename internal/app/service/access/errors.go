package access

import (
	"fmt"
	"time"

	"github.com/fatflowers/gymcore/pkg/apperr"
)

// SessionOpenError is returned by CheckIn while the user still has an open session. It names
// the blocking check-in, including one left open since an earlier day, so it can be closed.
type SessionOpenError struct {
	UserID      string    `json:"user_id"`
	CheckInID   string    `json:"check_in_id"`
	CheckInTime time.Time `json:"check_in_time"`
}

func (e *SessionOpenError) Error() string {
	return fmt.Sprintf("user %s has open check-in %s since %s: %v",
		e.UserID, e.CheckInID, e.CheckInTime.Format(time.RFC3339), apperr.ErrSessionAlreadyOpen)
}

func (e *SessionOpenError) Unwrap() error {
	return apperr.ErrSessionAlreadyOpen
}

package membership

import (
	"time"

	"github.com/fatflowers/gymcore/internal/models"
	"github.com/fatflowers/gymcore/pkg/types"
)

// ComputeEffectiveStatus is the only expiry mechanism: nothing ever writes EXPIRED, so a
// membership past its end date reads as EXPIRED whatever its stored status says.
func ComputeEffectiveStatus(m *models.Membership, now time.Time) types.MembershipStatus {
	if m.EndDate.Before(now) {
		return types.MembershipStatusExpired
	}
	return m.Status
}

// IsEffectivelyActive reports whether m grants access at now.
func IsEffectivelyActive(m *models.Membership, now time.Time) bool {
	return m != nil && ComputeEffectiveStatus(m, now) == types.MembershipStatusActive
}

// newer orders memberships for the "current membership" rule: latest start date, then
// latest creation, then greatest id (ids are UUIDv7 so they follow creation order too).
func newer(a, b *models.Membership) bool {
	if !a.StartDate.Equal(b.StartDate) {
		return a.StartDate.After(b.StartDate)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// CurrentByUser picks the current membership of every user present in ms.
func CurrentByUser(ms []*models.Membership) map[string]*models.Membership {
	current := make(map[string]*models.Membership, len(ms))
	for _, m := range ms {
		if cur, ok := current[m.UserID]; !ok || newer(m, cur) {
			current[m.UserID] = m
		}
	}
	return current
}

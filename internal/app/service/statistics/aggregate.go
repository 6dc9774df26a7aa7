package statistics

import (
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/fatflowers/gymcore/internal/app/service/membership"
	"github.com/fatflowers/gymcore/internal/models"
	"github.com/fatflowers/gymcore/pkg/types"
)

const (
	peakHoursTop        = 3
	peakHoursLookback   = 30 * 24 * time.Hour
	recentSalesSample   = 3
	recentCheckInSample = 2
	recentActivityLimit = 4
)

type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type ActivityItem struct {
	Kind      types.ActivityKind `json:"kind"`
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	Amount    *decimal.Decimal   `json:"amount,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// GrowthPercent is (current - previous) / previous * 100 rounded to one decimal, or 0 when
// there is no previous revenue to compare against.
func GrowthPercent(current, previous decimal.Decimal) float64 {
	if !previous.IsPositive() {
		return 0
	}
	return current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64()
}

func SumAmounts(amounts []decimal.Decimal) decimal.Decimal {
	return lo.Reduce(amounts, func(acc decimal.Decimal, a decimal.Decimal, _ int) decimal.Decimal {
		return acc.Add(a)
	}, decimal.Zero)
}

// PeakHours buckets check-in times by hour of day in loc and returns the top n by count.
// Ties go to the earlier hour.
func PeakHours(times []time.Time, loc *time.Location, n int) []HourCount {
	var buckets [24]int
	for _, t := range times {
		buckets[t.In(loc).Hour()]++
	}
	out := make([]HourCount, 0, 24)
	for h, c := range buckets {
		if c > 0 {
			out = append(out, HourCount{Hour: h, Count: c})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// RecentActivity merges an already sampled set of sales and check-ins, newest first, and
// keeps the first limit items. Because each source is sampled before the merge, the result
// is not the true top-limit when one source dominates. Sales come before check-ins on equal
// timestamps.
func RecentActivity(sales []*models.Sale, checkIns []*models.CheckIn, limit int) []ActivityItem {
	items := make([]ActivityItem, 0, len(sales)+len(checkIns))
	for _, s := range sales {
		amount := s.Amount
		items = append(items, ActivityItem{Kind: types.ActivityKindSale, ID: s.ID, UserID: s.UserID, Amount: &amount, Timestamp: s.CreatedAt})
	}
	for _, c := range checkIns {
		items = append(items, ActivityItem{Kind: types.ActivityKindCheckIn, ID: c.ID, UserID: c.UserID, Timestamp: c.CheckInTime})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Timestamp.After(items[j].Timestamp) })
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// CountMembers tallies effective statuses over the current membership of each client.
// Clients without any membership count towards neither.
func CountMembers(clientIDs []string, memberships []*models.Membership, now time.Time) (active, expired int64) {
	current := membership.CurrentByUser(memberships)
	for _, id := range clientIDs {
		m, ok := current[id]
		if !ok {
			continue
		}
		switch membership.ComputeEffectiveStatus(m, now) {
		case types.MembershipStatusActive:
			active++
		case types.MembershipStatusExpired:
			expired++
		}
	}
	return active, expired
}

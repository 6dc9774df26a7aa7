package snapshot

import (
	"math"
	"time"

	"github.com/fatflowers/gymcore/internal/app/service/membership"
	"github.com/fatflowers/gymcore/internal/models"
	"github.com/fatflowers/gymcore/pkg/types"
)

// UnknownPlanName stands in for a plan row that no longer exists.
const UnknownPlanName = "Unknown plan"

type MemberSnapshot struct {
	UserID   string     `json:"user_id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Phone    string     `json:"phone"`
	Role     types.Role `json:"role"`
	IsActive bool       `json:"is_active"`

	// Membership is nil when the user never had one; the fields below are then zero.
	Membership    *MembershipView `json:"membership"`
	DaysRemaining int             `json:"days_remaining"`
	IsExpired     bool            `json:"is_expired"`

	IsInside    bool       `json:"is_inside"`
	CheckInID   string     `json:"check_in_id,omitempty"`
	CheckInTime *time.Time `json:"check_in_time,omitempty"`

	ComputedAt time.Time `json:"computed_at"`
}

type MembershipView struct {
	ID              string                 `json:"id"`
	PlanID          string                 `json:"plan_id"`
	PlanName        string                 `json:"plan_name"`
	PlanType        types.PlanType         `json:"plan_type,omitempty"`
	StartDate       time.Time              `json:"start_date"`
	EndDate         time.Time              `json:"end_date"`
	Status          types.MembershipStatus `json:"status"`
	EffectiveStatus types.MembershipStatus `json:"effective_status"`
	AutoRenewal     bool                   `json:"auto_renewal"`
}

// Compose joins one user's independently fetched records at now. current, plan and open
// may be nil.
func Compose(u *models.User, current *models.Membership, plan *models.MembershipPlan, open *models.CheckIn, now time.Time) *MemberSnapshot {
	s := &MemberSnapshot{
		UserID:     u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Role:       u.Role,
		IsActive:   u.IsActive,
		ComputedAt: now,
	}
	if current != nil {
		view := &MembershipView{
			ID:              current.ID,
			PlanID:          current.PlanID,
			PlanName:        UnknownPlanName,
			StartDate:       current.StartDate,
			EndDate:         current.EndDate,
			Status:          current.Status,
			EffectiveStatus: membership.ComputeEffectiveStatus(current, now),
			AutoRenewal:     current.AutoRenewal,
		}
		if plan != nil {
			view.PlanName = plan.Name
			view.PlanType = plan.Type
		}
		s.Membership = view
		s.DaysRemaining = DaysRemaining(current.EndDate, now)
		s.IsExpired = current.EndDate.Before(now)
	}
	if open.IsOpen() {
		s.IsInside = true
		s.CheckInID = open.ID
		t := open.CheckInTime
		s.CheckInTime = &t
	}
	return s
}

// DaysRemaining is max(0, ceil((end - now) / 24h)).
func DaysRemaining(end, now time.Time) int {
	left := end.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}

// ComposeAll builds a snapshot per user from bulk reads.
func ComposeAll(users []*models.User, memberships []*models.Membership, plans []*models.MembershipPlan, open map[string]*models.CheckIn, now time.Time) []*MemberSnapshot {
	current := membership.CurrentByUser(memberships)
	planByID := make(map[string]*models.MembershipPlan, len(plans))
	for _, p := range plans {
		planByID[p.ID] = p
	}
	out := make([]*MemberSnapshot, 0, len(users))
	for _, u := range users {
		m := current[u.ID]
		var plan *models.MembershipPlan
		if m != nil {
			plan = planByID[m.PlanID]
		}
		out = append(out, Compose(u, m, plan, open[u.ID], now))
	}
	return out
}

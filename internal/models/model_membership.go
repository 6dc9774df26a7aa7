package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fatflowers/gymcore/pkg/types"
)

// Membership is one purchased period of access for a user. A user keeps every membership
// ever sold as history; the current one is the one with the latest StartDate.
//
// Status is the stored status only. It is never flipped to EXPIRED by the system, so readers
// must go through membership.ComputeEffectiveStatus.
type Membership struct {
	ID     string `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:varchar(36);not null;index:idx_memberships_user_start,priority:1" json:"user_id"`
	PlanID string `gorm:"column:plan_id;type:varchar(36);not null;index" json:"plan_id"`
	// PlanName and PricePaid are copied from the plan at purchase time.
	PlanName    string                 `gorm:"column:plan_name;type:varchar(128)" json:"plan_name"`
	PricePaid   decimal.Decimal        `gorm:"column:price_paid;type:numeric(12,2);not null;default:0" json:"price_paid"`
	StartDate   time.Time              `gorm:"column:start_date;not null;index:idx_memberships_user_start,priority:2" json:"start_date"`
	EndDate     time.Time              `gorm:"column:end_date;not null" json:"end_date"`
	Status      types.MembershipStatus `gorm:"column:status;type:varchar(16);not null" json:"status"`
	AutoRenewal bool                   `gorm:"column:auto_renewal;not null;default:false" json:"auto_renewal"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

func (Membership) TableName() string {
	return "memberships"
}

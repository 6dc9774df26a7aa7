package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/fatflowers/gymcore/pkg/types"
)

// MembershipPlan is the sellable plan. Edits never change memberships already sold;
// those keep their own end date and price/name snapshot.
type MembershipPlan struct {
	ID           string                      `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Name         string                      `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Type         types.PlanType              `gorm:"column:type;type:varchar(16);not null" json:"type"`
	Price        decimal.Decimal             `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	DurationDays int                         `gorm:"column:duration_days;not null" json:"duration_days"`
	Benefits     datatypes.JSONSlice[string] `gorm:"column:benefits" json:"benefits"`
	// IsActive false means soft-deleted.
	IsActive  bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MembershipPlan) TableName() string {
	return "membership_plans"
}

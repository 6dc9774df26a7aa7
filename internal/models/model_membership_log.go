package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/fatflowers/gymcore/pkg/types"
)

// MembershipLog records every membership change for troubleshooting.
type MembershipLog struct {
	ID           string                       `gorm:"column:id;type:varchar(36);primaryKey"`
	MembershipID string                       `gorm:"column:membership_id;type:varchar(36);not null;index"`
	UserID       string                       `gorm:"column:user_id;type:varchar(36);not null;index"`
	Reason       types.MembershipChangeReason `gorm:"column:reason;type:varchar(32);not null"`
	// Before is null for newly created memberships.
	Before    datatypes.JSONType[*Membership] `gorm:"column:before"`
	After     datatypes.JSONType[*Membership] `gorm:"column:after"`
	CreatedAt time.Time
}

func (MembershipLog) TableName() string {
	return "membership_logs"
}

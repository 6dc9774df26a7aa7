package models

import "time"

// CheckIn is one visit. A nil CheckOutTime means the member is still on the premises.
// The partial unique index keeps at most one open session per user.
type CheckIn struct {
	ID           string     `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	UserID       string     `gorm:"column:user_id;type:varchar(36);not null;index;uniqueIndex:idx_check_ins_open_user,where:check_out_time IS NULL" json:"user_id"`
	CheckInTime  time.Time  `gorm:"column:check_in_time;not null;index" json:"check_in_time"`
	CheckOutTime *time.Time `gorm:"column:check_out_time" json:"check_out_time"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (CheckIn) TableName() string {
	return "check_ins"
}

func (c *CheckIn) IsOpen() bool {
	return c != nil && c.CheckOutTime == nil
}

package models

import (
	"time"

	"github.com/fatflowers/gymcore/pkg/types"
)

// User is owned by the identity collaborator. The core only reads it.
type User struct {
	ID        string     `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Name      string     `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Email     string     `gorm:"column:email;type:varchar(128)" json:"email"`
	Phone     string     `gorm:"column:phone;type:varchar(32)" json:"phone"`
	Role      types.Role `gorm:"column:role;type:varchar(16);not null;index" json:"role"`
	IsActive  bool       `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt time.Time  `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

package models

import "time"

type Product struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Stock     int       `gorm:"column:stock;not null;default:0" json:"stock"`
	MinStock  int       `gorm:"column:min_stock;not null;default:0" json:"min_stock"`
	IsActive  bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) IsLowStock() bool {
	return p != nil && p.Stock <= p.MinStock
}

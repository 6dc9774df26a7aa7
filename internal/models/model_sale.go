package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type SaleLineItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Sale is a payment or point-of-sale record. It is immutable; refunds are new rows.
type Sale struct {
	ID        string                            `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	UserID    string                            `gorm:"column:user_id;type:varchar(36);not null;index" json:"user_id"`
	SellerID  *string                           `gorm:"column:seller_id;type:varchar(36)" json:"seller_id"`
	Amount    decimal.Decimal                   `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	LineItems datatypes.JSONSlice[SaleLineItem] `gorm:"column:line_items" json:"line_items"`
	CreatedAt time.Time                         `gorm:"column:created_at;index" json:"created_at"`
}

func (Sale) TableName() string {
	return "sales"
}

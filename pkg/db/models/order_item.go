package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem captures the snapshot of each line within an order.
type OrderItem struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      *uuid.UUID `gorm:"column:product_id;type:uuid"`
	Name           string     `gorm:"column:name;not null"`
	Size           *string    `gorm:"column:size"`
	Color          *string    `gorm:"column:color"`
	Image          *string    `gorm:"column:image"`
	UnitPricePaise int        `gorm:"column:unit_price_paise;not null"`
	Qty            int        `gorm:"column:qty;not null"`
	TotalPaise     int        `gorm:"column:total_paise;not null"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rohanmalik/boutique-backend/pkg/types"
)

// CartItem persists product-level snapshots tied to a Cart. Lines are keyed on
// (cart_id, product_id, size, color); adding the same variant again merges
// quantities instead of creating a new row.
type CartItem struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID         uuid.UUID              `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:uq_cart_items_variant,priority:1"`
	ProductID      uuid.UUID              `gorm:"column:product_id;type:uuid;not null;uniqueIndex:uq_cart_items_variant,priority:2"`
	Size           string                 `gorm:"column:size;not null;default:'';uniqueIndex:uq_cart_items_variant,priority:3"`
	Color          string                 `gorm:"column:color;not null;default:'';uniqueIndex:uq_cart_items_variant,priority:4"`
	Quantity       int                    `gorm:"column:quantity;not null"`
	Name           string                 `gorm:"column:name;not null"`
	UnitPricePaise int                    `gorm:"column:unit_price_paise;not null"`
	Image          *string                `gorm:"column:image"`
	Warnings       types.CartItemWarnings `gorm:"column:warnings;type:jsonb;serializer:json"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// LineSubtotalPaise derives the line total.
func (i CartItem) LineSubtotalPaise() int {
	return i.Quantity * i.UnitPricePaise
}

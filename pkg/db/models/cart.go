package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the per-customer active cart. A customer has at most one open cart;
// checkout empties it rather than archiving it.
type Cart struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// SubtotalPaise derives the cart total from its lines. The total is never
// stored; it is always recomputed from quantity and unit price.
func (c Cart) SubtotalPaise() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity * item.UnitPricePaise
	}
	return total
}

// ItemCount returns the summed quantity across all lines.
func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rohanmalik/boutique-backend/pkg/types"
)

// Profile stores the customer's saved contact and shipping details used to
// prefill the checkout form.
type Profile struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID              `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	ShippingAddress *types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

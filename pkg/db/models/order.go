package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rohanmalik/boutique-backend/pkg/enums"
	"github.com/rohanmalik/boutique-backend/pkg/types"
)

// Order captures a confirmed checkout. Amounts are frozen in paise at
// placement time and never recomputed from the catalog.
type Order struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	OrderNumber     string                 `gorm:"column:order_number;not null;uniqueIndex"`
	Status          enums.OrderStatus      `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentMethod   enums.PaymentMethod    `gorm:"column:payment_method;type:text;not null;default:'cod'"`
	PaymentStatus   enums.PaymentStatus    `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	ShippingAddress *types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	BillingAddress  *types.ShippingAddress `gorm:"column:billing_address;type:jsonb;serializer:json"`
	SubtotalPaise   int                    `gorm:"column:subtotal_paise;not null"`
	TotalPaise      int                    `gorm:"column:total_paise;not null"`
	Notes           *string                `gorm:"column:notes"`
	Items           []OrderItem            `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	DeliveredAt     *time.Time             `gorm:"column:delivered_at"`
	CancelledAt     *time.Time             `gorm:"column:cancelled_at"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

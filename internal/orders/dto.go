package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rohanmalik/boutique-backend/pkg/enums"
	"github.com/rohanmalik/boutique-backend/pkg/types"
)

// ListFilters describe the inputs supported by the admin order list.
type ListFilters struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	UserID        *uuid.UUID
	DateFrom      *time.Time
	DateTo        *time.Time
	Limit         int
	Offset        int
}

// ItemView is one order line shaped for the UI.
type ItemView struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      *uuid.UUID      `json:"product_id,omitempty"`
	Name           string          `json:"name"`
	Size           *string         `json:"size,omitempty"`
	Color          *string         `json:"color,omitempty"`
	Image          *string         `json:"image,omitempty"`
	Quantity       int             `json:"quantity"`
	UnitPricePaise int             `json:"unit_price_paise"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TotalPaise     int             `json:"total_paise"`
	Total          decimal.Decimal `json:"total"`
}

// View is the order presented to the UI.
type View struct {
	ID              uuid.UUID              `json:"id"`
	OrderNumber     string                 `json:"order_number"`
	Status          enums.OrderStatus      `json:"status"`
	PaymentMethod   enums.PaymentMethod    `json:"payment_method"`
	PaymentStatus   enums.PaymentStatus    `json:"payment_status"`
	ShippingAddress *types.ShippingAddress `json:"shipping_address,omitempty"`
	BillingAddress  *types.ShippingAddress `json:"billing_address,omitempty"`
	Notes           *string                `json:"notes,omitempty"`
	SubtotalPaise   int                    `json:"subtotal_paise"`
	TotalPaise      int                    `json:"total_paise"`
	Total           decimal.Decimal        `json:"total"`
	ItemCount       int                    `json:"item_count"`
	Items           []ItemView             `json:"items,omitempty"`
	DeliveredAt     *time.Time             `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time             `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

// ListView wraps an order page plus the total row count for the filter.
type ListView struct {
	Orders []View `json:"orders"`
	Total  int64  `json:"total"`
}

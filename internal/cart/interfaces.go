package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohanmalik/boutique-backend/pkg/db/models"
)

// CartRepository exposes persistence operations for carts and their lines.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	FindOrCreateByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindItemByVariant(ctx context.Context, cartID, productID uuid.UUID, size, color string) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	UpdateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	DeleteItemsByCart(ctx context.Context, cartID uuid.UUID) error
}

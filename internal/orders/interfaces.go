package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohanmalik/boutique-backend/pkg/db/models"
	"github.com/rohanmalik/boutique-backend/pkg/enums"
)

// Repository exposes persistence operations for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateItems(ctx context.Context, items []models.OrderItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	List(ctx context.Context, filters ListFilters) ([]models.Order, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error)
}

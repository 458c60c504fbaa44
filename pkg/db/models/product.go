package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product represents a storefront listing. Prices are stored in paise.
type Product struct {
	ID                  uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                string         `gorm:"column:name;not null"`
	Description         *string        `gorm:"column:description"`
	Category            string         `gorm:"column:category;not null"`
	PricePaise          int            `gorm:"column:price_paise;not null"`
	CompareAtPricePaise *int           `gorm:"column:compare_at_price_paise"`
	Images              pq.StringArray `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	Sizes               pq.StringArray `gorm:"column:sizes;type:text[];not null;default:ARRAY[]::text[]"`
	Colors              pq.StringArray `gorm:"column:colors;type:text[];not null;default:ARRAY[]::text[]"`
	StockQty            int            `gorm:"column:stock_qty;not null;default:0"`
	IsActive            bool           `gorm:"column:is_active;not null;default:true"`
	IsFeatured          bool           `gorm:"column:is_featured;not null;default:false"`
	CreatedAt           time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

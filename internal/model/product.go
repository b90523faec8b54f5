package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog item. Price and name are snapshotted into invoice
// lines at insertion time; Stock is decremented when an invoice settles.
type Product struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string          `gorm:"not null"`
	Category  string          `gorm:"not null;index"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock     decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	IsActive  bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is a credit-account holder. TotalDebt is a materialized balance:
// it is only ever written inside ledger transactions, as the fold over the
// customer's DEBT / DEBT_PAYMENT / CORRECTION rows — never from client input.
type Customer struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName  string          `gorm:"not null;index"`
	Phone     *string         `gorm:"uniqueIndex"`
	Email     *string         `gorm:"uniqueIndex"`
	TotalDebt decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	IsActive  bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

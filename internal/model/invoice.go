package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice statuses. An invoice reaches a terminal state exactly once and is
// immutable afterwards (except for ledger rows that reference it).
const (
	InvoiceOpen      = "OPEN"
	InvoiceClosed    = "CLOSED"
	InvoiceCancelled = "CANCELLED"
	InvoiceDebt      = "DEBT"
)

// Line types.
const (
	LineNormal       = "NORMAL"
	LineSpecialOrder = "SPECIAL_ORDER"
	LineBilliard     = "BILLIARD"
)

// Invoice is an open tab bound to a table.
type Invoice struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TableID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`
	Status     string     `gorm:"type:varchar(20);not null;default:'OPEN';index"`
	OpenedAt   time.Time  `gorm:"not null"`
	ClosedAt   *time.Time
	OpenedBy   uuid.UUID  `gorm:"type:uuid;not null"`
	ClosedBy   *uuid.UUID `gorm:"type:uuid"`

	Lines []InvoiceLine `gorm:"foreignKey:InvoiceID"`
}

// Total sums the non-removed lines.
func (i *Invoice) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range i.Lines {
		if !l.Removed {
			total = total.Add(l.LineTotal)
		}
	}
	return total
}

// InvoiceLine snapshots the product name and unit price at insertion time so
// later catalog changes never retroactively affect existing lines.
// Lines are soft-deleted (Removed flag), never physically deleted.
type InvoiceLine struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineType            string          `gorm:"type:varchar(20);not null"`
	ProductID           *uuid.UUID      `gorm:"type:uuid"`
	ProductNameSnapshot string          `gorm:"not null"`
	Quantity            decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	UnitPriceSnapshot   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Note                *string
	Removed             bool       `gorm:"not null;default:false"`
	RemovedBy           *uuid.UUID `gorm:"type:uuid"`
	CreatedAt           time.Time
	CreatedBy           uuid.UUID `gorm:"type:uuid;not null"`
}

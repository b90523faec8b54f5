package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Table kinds.
const (
	TableStandard = "standard"
	TableBilliard = "billiard"
)

// Table is a physical dining (or billiard) table. A table is occupied iff
// CurrentInvoiceID is non-null; the link is maintained exclusively inside
// invoice/payment transactions.
type Table struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TableNumber int       `gorm:"uniqueIndex;not null"`
	Name        string    `gorm:"column:table_name;not null"`
	Kind        string    `gorm:"type:varchar(20);not null;default:'standard'"`
	// HourlyRate applies to billiard tables only
	HourlyRate       *decimal.Decimal `gorm:"type:decimal(12,2)"`
	IsActive         bool             `gorm:"not null;default:true"`
	CurrentInvoiceID *uuid.UUID       `gorm:"type:uuid"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Table) TableName() string { return "restaurant_tables" }

// Occupied reports whether the table has an open invoice bound to it.
func (t *Table) Occupied() bool { return t.CurrentInvoiceID != nil }

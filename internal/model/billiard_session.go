package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BilliardSession tracks timed play on a billiard table. Ending the session
// (explicitly or during payment settlement) prices the elapsed time at the
// table's hourly rate and appends a BILLIARD line to the invoice.
type BilliardSession struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TableID         uuid.UUID `gorm:"type:uuid;not null;index"`
	InvoiceID       uuid.UUID `gorm:"type:uuid;not null;index"`
	StartedAt       time.Time `gorm:"not null"`
	EndedAt         *time.Time
	DurationMinutes *int
	Amount          *decimal.Decimal `gorm:"type:decimal(12,2)"`
	StartedBy       uuid.UUID        `gorm:"type:uuid;not null"`
	EndedBy         *uuid.UUID       `gorm:"type:uuid"`
}

// Active reports whether the session is still running.
func (s *BilliardSession) Active() bool { return s.EndedAt == nil }

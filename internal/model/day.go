package model

import (
	"time"

	"github.com/google/uuid"
)

// Day is the business operating period that gates every transactional
// operation. At most one Day is open at any time; the partial unique index
// on is_open backs the transaction-level check in the repository.
type Day struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DayDate  time.Time  `gorm:"type:date;not null;index"`
	IsOpen   bool       `gorm:"not null;default:true;index:idx_days_single_open,where:is_open"`
	OpenedAt time.Time  `gorm:"not null"`
	ClosedAt *time.Time
	OpenedBy uuid.UUID  `gorm:"type:uuid;not null"`
	ClosedBy *uuid.UUID `gorm:"type:uuid"`

	Snapshots []DaySnapshot `gorm:"foreignKey:DayID"`
}

// Snapshot types.
const (
	SnapshotOpening = "OPENING"
	SnapshotClosing = "CLOSING"
)

// DaySnapshot captures ledger state at the open/close boundary.
// Immutable once created; refunds against transactions that predate the
// latest CLOSING snapshot are rejected.
type DaySnapshot struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DayID        uuid.UUID `gorm:"type:uuid;not null;index"`
	SnapshotType string    `gorm:"type:varchar(10);not null"`
	TakenAt      time.Time `gorm:"not null"`
	// Data is a JSON export of the ledger at the boundary (marshalled in the
	// repository, stored as jsonb).
	Data []byte `gorm:"type:jsonb"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger transaction types.
const (
	TxSales       = "SALES"
	TxPayment     = "PAYMENT"
	TxDebt        = "DEBT"
	TxDebtPayment = "DEBT_PAYMENT"
	TxExpense     = "EXPENSE"
	TxRefund      = "REFUND"
	TxCorrection  = "CORRECTION"
)

// Payment methods.
const (
	MethodCash = "CASH"
	MethodCard = "CARD"
	MethodDebt = "DEBT"
)

// FinanceTransaction is one row of the append-only money ledger. Rows are
// never updated or deleted: refunds and corrections append new rows that
// reference the original through ReferenceID.
type FinanceTransaction struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TransactionDate time.Time  `gorm:"not null;index"`
	DayID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	InvoiceID       *uuid.UUID `gorm:"type:uuid;index"`
	CustomerID      *uuid.UUID `gorm:"type:uuid;index"`
	TransactionType string     `gorm:"type:varchar(20);not null;index"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod   *string         `gorm:"type:varchar(10)"`
	Description     *string
	// ReferenceID links a REFUND or CORRECTION to the row it amends
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null"`
}

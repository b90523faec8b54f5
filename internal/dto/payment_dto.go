package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PaymentRequest struct {
	InvoiceID     string          `json:"invoice_id"     validate:"required,uuid"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=CASH CARD DEBT"`
	Amount        decimal.Decimal `json:"amount"         validate:"required,gt=0"`
	CustomerID    *string         `json:"customer_id"    validate:"omitempty,uuid"` // required for DEBT
	Description   *string         `json:"description"`
}

type ValidatePaymentRequest struct {
	InvoiceID string          `json:"invoice_id" validate:"required,uuid"`
	Amount    decimal.Decimal `json:"amount"     validate:"required,gt=0"`
}

type RefundRequest struct {
	TransactionID string          `json:"transaction_id" validate:"required,uuid"`
	RefundAmount  decimal.Decimal `json:"refund_amount"  validate:"required,gt=0"`
	RefundReason  string          `json:"refund_reason"  validate:"required,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PaymentResponse struct {
	Success            bool             `json:"success"`
	TransactionID      string           `json:"transaction_id"`
	InvoiceID          *string          `json:"invoice_id,omitempty"`
	InvoiceClosed      bool             `json:"invoice_closed"`
	TableFreed         bool             `json:"table_freed"`
	BilliardCalculated bool             `json:"billiard_calculated"`
	NewBalance         *decimal.Decimal `json:"new_balance,omitempty"`
	Message            string           `json:"message"`
}

// PaymentValidationResponse is the side-effect-free dry run used by the UI to
// pre-empt amount-mismatch failures before committing a payment.
type PaymentValidationResponse struct {
	InvoiceTotal decimal.Decimal `json:"invoice_total"`
	AlreadyPaid  decimal.Decimal `json:"already_paid"`
	Remaining    decimal.Decimal `json:"remaining"`
	IsValid      bool            `json:"is_valid"`
	Message      string          `json:"message"`
}

type FinanceTransactionResponse struct {
	ID              string          `json:"id"`
	TransactionDate string          `json:"transaction_date"`
	DayID           string          `json:"day_id"`
	InvoiceID       *string         `json:"invoice_id,omitempty"`
	CustomerID      *string         `json:"customer_id,omitempty"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   *string         `json:"payment_method,omitempty"`
	Description     *string         `json:"description,omitempty"`
	ReferenceID     *string         `json:"reference_id,omitempty"`
	CreatedBy       string          `json:"created_by"`
}

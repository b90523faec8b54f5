package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateCustomerRequest struct {
	FullName string  `json:"full_name" validate:"required,min=2"`
	Phone    *string `json:"phone"     validate:"omitempty,min=6"`
	Email    *string `json:"email"     validate:"omitempty,email"`
}

type UpdateCustomerRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2"`
	Phone    *string `json:"phone"     validate:"omitempty,min=6"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	IsActive *bool   `json:"is_active"`
}

type CreateDebtRequest struct {
	CustomerID  string          `json:"customer_id" validate:"required,uuid"`
	InvoiceID   string          `json:"invoice_id"  validate:"required,uuid"`
	Amount      decimal.Decimal `json:"amount"      validate:"required,gt=0"`
	Description *string         `json:"description"`
}

type PayDebtRequest struct {
	CustomerID    string          `json:"customer_id"    validate:"required,uuid"`
	Amount        decimal.Decimal `json:"amount"         validate:"required,gt=0"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=CASH CARD"`
	Description   *string         `json:"description"`
}

// CorrectDebtRequest: the 10-character floor on reason deters casual misuse
// of the only path that can adjust a balance outside normal debt flow.
type CorrectDebtRequest struct {
	CustomerID       string          `json:"customer_id"       validate:"required,uuid"`
	CorrectionAmount decimal.Decimal `json:"correction_amount" validate:"required"`
	Reason           string          `json:"reason"            validate:"required,min=10"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CustomerResponse struct {
	ID        string          `json:"id"`
	FullName  string          `json:"full_name"`
	Phone     *string         `json:"phone,omitempty"`
	Email     *string         `json:"email,omitempty"`
	TotalDebt decimal.Decimal `json:"total_debt"`
	IsActive  bool            `json:"is_active"`
	CreatedAt string          `json:"created_at"`
}

type DebtResponse struct {
	TransactionID string          `json:"transaction_id"`
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	Amount        decimal.Decimal `json:"amount"`
	InvoiceID     *string         `json:"invoice_id,omitempty"`
	Description   *string         `json:"description,omitempty"`
	NewBalance    decimal.Decimal `json:"new_balance"`
}

type CustomerBalanceResponse struct {
	CustomerID     string          `json:"customer_id"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

type DebtorResponse struct {
	CustomerID string          `json:"customer_id"`
	FullName   string          `json:"full_name"`
	Phone      *string         `json:"phone,omitempty"`
	TotalDebt  decimal.Decimal `json:"total_debt"`
}

type DebtSummaryResponse struct {
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	DebtorCount      int             `json:"debtor_count"`
	DebtCreated      decimal.Decimal `json:"debt_created"`
	DebtPaid         decimal.Decimal `json:"debt_paid"`
}

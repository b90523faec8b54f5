package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateInvoiceRequest struct {
	TableID    string  `json:"table_id"    validate:"required,uuid"`
	CustomerID *string `json:"customer_id" validate:"omitempty,uuid"`
}

type AddLineRequest struct {
	LineType  string           `json:"line_type"  validate:"required,oneof=NORMAL SPECIAL_ORDER"`
	ProductID *string          `json:"product_id" validate:"omitempty,uuid"`
	Quantity  decimal.Decimal  `json:"quantity"   validate:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"omitempty,gt=0"`
	Note      *string          `json:"note"`
}

type CancelInvoiceRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

type StartBilliardRequest struct {
	TableID   string `json:"table_id"   validate:"required,uuid"`
	InvoiceID string `json:"invoice_id" validate:"required,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type InvoiceLineResponse struct {
	ID                  string          `json:"id"`
	InvoiceID           string          `json:"invoice_id"`
	LineType            string          `json:"line_type"`
	ProductID           *string         `json:"product_id,omitempty"`
	ProductNameSnapshot string          `json:"product_name_snapshot"`
	Quantity            decimal.Decimal `json:"quantity"`
	UnitPriceSnapshot   decimal.Decimal `json:"unit_price_snapshot"`
	LineTotal           decimal.Decimal `json:"line_total"`
	Note                *string         `json:"note,omitempty"`
	CreatedAt           string          `json:"created_at"`
}

type InvoiceResponse struct {
	ID          string                `json:"id"`
	TableID     string                `json:"table_id"`
	TableNumber int                   `json:"table_number"`
	CustomerID  *string               `json:"customer_id,omitempty"`
	Status      string                `json:"status"`
	OpenedAt    string                `json:"opened_at"`
	ClosedAt    *string               `json:"closed_at,omitempty"`
	TotalAmount decimal.Decimal       `json:"total_amount"`
	Lines       []InvoiceLineResponse `json:"lines"`
}

type InvoiceSummaryResponse struct {
	ID          string          `json:"id"`
	TableNumber int             `json:"table_number"`
	Status      string          `json:"status"`
	OpenedAt    string          `json:"opened_at"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	LineCount   int             `json:"line_count"`
}

type TableResponse struct {
	ID               string           `json:"id"`
	TableNumber      int              `json:"table_number"`
	TableName        string           `json:"table_name"`
	Kind             string           `json:"kind"`
	HourlyRate       *decimal.Decimal `json:"hourly_rate,omitempty"`
	IsActive         bool             `json:"is_active"`
	CurrentInvoiceID *string          `json:"current_invoice_id,omitempty"`
	IsOccupied       bool             `json:"is_occupied"`
}

type BilliardSessionResponse struct {
	ID              string           `json:"id"`
	TableID         string           `json:"table_id"`
	InvoiceID       string           `json:"invoice_id"`
	StartedAt       string           `json:"started_at"`
	EndedAt         *string          `json:"ended_at,omitempty"`
	DurationMinutes *int             `json:"duration_minutes,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	IsActive        bool             `json:"is_active"`
}

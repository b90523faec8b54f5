package dto

import "github.com/shopspring/decimal"

type DailySalesReportResponse struct {
	DayDate          string          `json:"day_date"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	CashPayments     decimal.Decimal `json:"cash_payments"`
	CardPayments     decimal.Decimal `json:"card_payments"`
	DebtCreated      decimal.Decimal `json:"debt_created"`
	DebtPaid         decimal.Decimal `json:"debt_paid"`
	Refunds          decimal.Decimal `json:"refunds"`
	TransactionCount int             `json:"transaction_count"`
}

type CashFlowReportResponse struct {
	DayDate  string          `json:"day_date"`
	Inflow   decimal.Decimal `json:"inflow"`
	Outflow  decimal.Decimal `json:"outflow"`
	NetFlow  decimal.Decimal `json:"net_flow"`
	ByMethod map[string]decimal.Decimal `json:"by_method"`
}

// FinanceTransactionFilter narrows the ledger listing; zero values mean "all".
type FinanceTransactionFilter struct {
	DayID           string `form:"day_id"`
	StartDate       string `form:"start_date"` // YYYY-MM-DD
	EndDate         string `form:"end_date"`
	TransactionType string `form:"type"`
	Limit           int    `form:"limit"`
	Offset          int    `form:"offset"`
}

package service

import (
	"context"

	"github.com/Lazvegas61/MyCafe-sql/internal/apierror"
	"github.com/Lazvegas61/MyCafe-sql/internal/dto"
	"github.com/Lazvegas61/MyCafe-sql/internal/model"
	"github.com/Lazvegas61/MyCafe-sql/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReportService interface {
	DailySales(ctx context.Context, dayID uuid.UUID) (*dto.DailySalesReportResponse, error)
	CurrentDaySales(ctx context.Context) (*dto.DailySalesReportResponse, error)
	CashFlow(ctx context.Context, dayID uuid.UUID) (*dto.CashFlowReportResponse, error)
	Transactions(ctx context.Context, filter dto.FinanceTransactionFilter) ([]dto.FinanceTransactionResponse, int64, error)
	DebtSummary(ctx context.Context) (*dto.DebtSummaryResponse, error)
}

type reportService struct {
	ledger    repository.LedgerRepository
	days      repository.DayRepository
	customers repository.CustomerRepository
}

func NewReportService(
	ledger repository.LedgerRepository,
	days repository.DayRepository,
	customers repository.CustomerRepository,
) ReportService {
	return &reportService{ledger: ledger, days: days, customers: customers}
}

func (s *reportService) DailySales(ctx context.Context, dayID uuid.UUID) (*dto.DailySalesReportResponse, error) {
	day, err := s.days.FindByID(ctx, dayID)
	if err != nil {
		return nil, apierror.NotFound("day", dayID.String())
	}
	return s.salesForDay(ctx, day)
}

func (s *reportService) CurrentDaySales(ctx context.Context) (*dto.DailySalesReportResponse, error) {
	day, err := s.days.FindOpen(ctx)
	if err != nil {
		return nil, apierror.BusinessRule("no open day to report on")
	}
	return s.salesForDay(ctx, day)
}

func (s *reportService) salesForDay(ctx context.Context, day *model.Day) (*dto.DailySalesReportResponse, error) {
	fts, err := s.ledger.ListByDay(ctx, day.ID)
	if err != nil {
		return nil, apierror.Database()
	}
	report := summarizeTransactions(fts)
	report.DayDate = day.DayDate.Format("2006-01-02")
	return &report, nil
}

func (s *reportService) CashFlow(ctx context.Context, dayID uuid.UUID) (*dto.CashFlowReportResponse, error) {
	day, err := s.days.FindByID(ctx, dayID)
	if err != nil {
		return nil, apierror.NotFound("day", dayID.String())
	}
	fts, err := s.ledger.ListByDay(ctx, day.ID)
	if err != nil {
		return nil, apierror.Database()
	}

	inflow := decimal.Zero
	outflow := decimal.Zero
	byMethod := map[string]decimal.Decimal{
		model.MethodCash: decimal.Zero,
		model.MethodCard: decimal.Zero,
	}

	for _, ft := range fts {
		switch ft.TransactionType {
		case model.TxPayment, model.TxSales, model.TxDebtPayment:
			inflow = inflow.Add(ft.Amount)
			if ft.PaymentMethod != nil {
				byMethod[*ft.PaymentMethod] = byMethod[*ft.PaymentMethod].Add(ft.Amount)
			}
		case model.TxRefund, model.TxExpense:
			outflow = outflow.Add(ft.Amount)
			if ft.PaymentMethod != nil {
				byMethod[*ft.PaymentMethod] = byMethod[*ft.PaymentMethod].Sub(ft.Amount)
			}
		}
	}

	return &dto.CashFlowReportResponse{
		DayDate:  day.DayDate.Format("2006-01-02"),
		Inflow:   inflow,
		Outflow:  outflow,
		NetFlow:  inflow.Sub(outflow),
		ByMethod: byMethod,
	}, nil
}

func (s *reportService) Transactions(ctx context.Context, filter dto.FinanceTransactionFilter) ([]dto.FinanceTransactionResponse, int64, error) {
	fts, total, err := s.ledger.List(ctx, filter)
	if err != nil {
		return nil, 0, apierror.Database()
	}
	resp := make([]dto.FinanceTransactionResponse, 0, len(fts))
	for _, ft := range fts {
		resp = append(resp, transactionToResponse(&ft))
	}
	return resp, total, nil
}

func (s *reportService) DebtSummary(ctx context.Context) (*dto.DebtSummaryResponse, error) {
	debtors, err := s.customers.Debtors(ctx)
	if err != nil {
		return nil, apierror.Database()
	}
	outstanding := decimal.Zero
	for _, c := range debtors {
		outstanding = outstanding.Add(c.TotalDebt)
	}

	created := decimal.Zero
	paid := decimal.Zero
	if day, err := s.days.FindOpen(ctx); err == nil {
		fts, err := s.ledger.ListByDay(ctx, day.ID)
		if err != nil {
			return nil, apierror.Database()
		}
		summary := summarizeTransactions(fts)
		created = summary.DebtCreated
		paid = summary.DebtPaid
	}

	return &dto.DebtSummaryResponse{
		TotalOutstanding: outstanding,
		DebtorCount:      len(debtors),
		DebtCreated:      created,
		DebtPaid:         paid,
	}, nil
}

// summarizeTransactions folds a day's ledger rows into the sales report.
// Refunds reduce the payment method bucket they came from and the total.
func summarizeTransactions(fts []model.FinanceTransaction) dto.DailySalesReportResponse {
	report := dto.DailySalesReportResponse{
		TotalSales:   decimal.Zero,
		CashPayments: decimal.Zero,
		CardPayments: decimal.Zero,
		DebtCreated:  decimal.Zero,
		DebtPaid:     decimal.Zero,
		Refunds:      decimal.Zero,
	}
	for _, ft := range fts {
		report.TransactionCount++
		switch ft.TransactionType {
		case model.TxPayment, model.TxSales:
			report.TotalSales = report.TotalSales.Add(ft.Amount)
			if ft.PaymentMethod != nil {
				switch *ft.PaymentMethod {
				case model.MethodCash:
					report.CashPayments = report.CashPayments.Add(ft.Amount)
				case model.MethodCard:
					report.CardPayments = report.CardPayments.Add(ft.Amount)
				}
			}
		case model.TxDebt:
			report.DebtCreated = report.DebtCreated.Add(ft.Amount)
			// A tab settled on account still counts as a sale for the day.
			report.TotalSales = report.TotalSales.Add(ft.Amount)
		case model.TxDebtPayment:
			report.DebtPaid = report.DebtPaid.Add(ft.Amount)
			if ft.PaymentMethod != nil {
				switch *ft.PaymentMethod {
				case model.MethodCash:
					report.CashPayments = report.CashPayments.Add(ft.Amount)
				case model.MethodCard:
					report.CardPayments = report.CardPayments.Add(ft.Amount)
				}
			}
		case model.TxRefund:
			report.Refunds = report.Refunds.Add(ft.Amount)
			report.TotalSales = report.TotalSales.Sub(ft.Amount)
			if ft.PaymentMethod != nil {
				switch *ft.PaymentMethod {
				case model.MethodCash:
					report.CashPayments = report.CashPayments.Sub(ft.Amount)
				case model.MethodCard:
					report.CardPayments = report.CardPayments.Sub(ft.Amount)
				}
			}
		}
	}
	return report
}

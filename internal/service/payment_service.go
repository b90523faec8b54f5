package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Lazvegas61/MyCafe-sql/internal/apierror"
	"github.com/Lazvegas61/MyCafe-sql/internal/dto"
	"github.com/Lazvegas61/MyCafe-sql/internal/model"
	"github.com/Lazvegas61/MyCafe-sql/internal/repository"
	"github.com/Lazvegas61/MyCafe-sql/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentService interface {
	ProcessPayment(ctx context.Context, userID uuid.UUID, req dto.PaymentRequest) (*dto.PaymentResponse, error)
	ValidatePayment(ctx context.Context, req dto.ValidatePaymentRequest) (*dto.PaymentValidationResponse, error)
	ProcessRefund(ctx context.Context, userID uuid.UUID, req dto.RefundRequest) (*dto.FinanceTransactionResponse, error)
	InvoicePayments(ctx context.Context, invoiceID uuid.UUID) ([]dto.FinanceTransactionResponse, error)
	DailyPayments(ctx context.Context) ([]dto.FinanceTransactionResponse, error)
}

type paymentService struct {
	ledger     repository.LedgerRepository
	invoices   repository.InvoiceRepository
	tables     repository.TableRepository
	products   repository.ProductRepository
	customers  repository.CustomerRepository
	billiards  repository.BilliardRepository
	days       repository.DayRepository
	dispatcher *worker.Dispatcher
}

func NewPaymentService(
	ledger repository.LedgerRepository,
	invoices repository.InvoiceRepository,
	tables repository.TableRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	billiards repository.BilliardRepository,
	days repository.DayRepository,
	dispatcher *worker.Dispatcher,
) PaymentService {
	return &paymentService{
		ledger:     ledger,
		invoices:   invoices,
		tables:     tables,
		products:   products,
		customers:  customers,
		billiards:  billiards,
		days:       days,
		dispatcher: dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── ProcessPayment ────────────────────────────────────────────────────────────
// The settle-everything transaction. Inside one tx:
//  1. stop and price a running billiard clock, appending the charge as a line
//  2. require the tendered amount to equal the remaining balance exactly
//  3. append the ledger row (PAYMENT, or DEBT when the tab goes on account)
//  4. reduce stock for every sold product line
//  5. close the invoice and free the table
// Either all of it lands or none of it does.

func (s *paymentService) ProcessPayment(ctx context.Context, userID uuid.UUID, req dto.PaymentRequest) (*dto.PaymentResponse, error) {
	day, err := requireOpenDay(ctx, s.days, "process payment")
	if err != nil {
		return nil, err
	}

	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		return nil, apierror.Validation("invoice_id is not a valid uuid")
	}
	inv, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, apierror.NotFound("invoice", req.InvoiceID)
	}
	if inv.Status != model.InvoiceOpen {
		return nil, apierror.BusinessRule("invoice is not open")
	}

	var customerID *uuid.UUID
	if req.PaymentMethod == model.MethodDebt {
		if req.CustomerID == nil {
			return nil, apierror.Validation("customer_id is required for DEBT payments")
		}
		cid, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, apierror.Validation("customer_id is not a valid uuid")
		}
		customer, err := s.customers.FindByID(ctx, cid)
		if err != nil {
			return nil, apierror.NotFound("customer", *req.CustomerID)
		}
		if !customer.IsActive {
			return nil, apierror.BusinessRule("customer is inactive")
		}
		customerID = &cid
	}

	now := time.Now()
	var (
		transaction        model.FinanceTransaction
		billiardCalculated bool
		newBalance         *decimal.Decimal
	)

	txErr := runTx(ctx, s.ledger.DB(), func(tx *gorm.DB) error {
		total := inv.Total()

		// 1. Settle a running billiard session before totalling.
		if session, err := s.billiards.ActiveByInvoice(ctx, invoiceID); err == nil && session.Active() {
			table, err := s.tables.FindByID(ctx, session.TableID)
			if err != nil || table.HourlyRate == nil {
				return apierror.BusinessRule("billiard table has no hourly rate configured")
			}
			if err := settleBilliardSession(ctx, tx, s.billiards, s.invoices, session, *table.HourlyRate, userID, now); err != nil {
				return err
			}
			total = total.Add(*session.Amount)
			billiardCalculated = true
		}

		// 2. Exact-amount rule: partial and excess payments are both rejected.
		alreadyPaid, err := s.ledger.SumInvoicePayments(ctx, invoiceID)
		if err != nil {
			return err
		}
		remaining := total.Sub(alreadyPaid)
		if !req.Amount.Equal(remaining) {
			return apierror.BusinessRule(fmt.Sprintf(
				"payment amount %s does not match remaining balance %s",
				req.Amount.StringFixed(2), remaining.StringFixed(2)))
		}

		// 3. Ledger row.
		txType := model.TxPayment
		if req.PaymentMethod == model.MethodDebt {
			txType = model.TxDebt
		}
		method := req.PaymentMethod
		transaction = model.FinanceTransaction{
			TransactionDate: now,
			DayID:           day.ID,
			InvoiceID:       &invoiceID,
			CustomerID:      customerID,
			TransactionType: txType,
			Amount:          req.Amount,
			PaymentMethod:   &method,
			Description:     req.Description,
			CreatedBy:       userID,
		}
		if err := s.ledger.Append(ctx, tx, &transaction); err != nil {
			return err
		}

		// Debt tabs update the customer's cached balance from the ledger fold.
		if customerID != nil {
			balance, err := s.ledger.CustomerBalance(ctx, tx, *customerID)
			if err != nil {
				return err
			}
			if err := s.customers.UpdateTotalDebt(ctx, tx, *customerID, balance); err != nil {
				return err
			}
			newBalance = &balance
		}

		// 4. Stock reduction for sold products.
		for _, line := range inv.Lines {
			if line.Removed || line.LineType != model.LineNormal || line.ProductID == nil {
				continue
			}
			if err := s.products.DecrementStock(ctx, tx, *line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		// 5. Close invoice, free table.
		finalStatus := model.InvoiceClosed
		if req.PaymentMethod == model.MethodDebt {
			finalStatus = model.InvoiceDebt
		}
		if err := s.invoices.UpdateStatus(ctx, tx, invoiceID, finalStatus, &userID, &now); err != nil {
			return err
		}
		return s.tables.Release(ctx, tx, inv.TableID)
	})
	if txErr != nil {
		if apiErr, ok := apierror.As(txErr); ok {
			return nil, apiErr
		}
		return nil, apierror.Database()
	}

	// Receipt rendering is async and best effort.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueReceipt(ctx, map[string]interface{}{
			"transaction_id": transaction.ID.String(),
			"invoice_id":     invoiceID.String(),
			"amount":         req.Amount.StringFixed(2),
			"payment_method": req.PaymentMethod,
		})
	}

	invID := invoiceID.String()
	return &dto.PaymentResponse{
		Success:            true,
		TransactionID:      transaction.ID.String(),
		InvoiceID:          &invID,
		InvoiceClosed:      true,
		TableFreed:         true,
		BilliardCalculated: billiardCalculated,
		NewBalance:         newBalance,
		Message:            "payment processed",
	}, nil
}

// ValidatePayment is the read-only preflight: it reports what ProcessPayment
// would require at this instant, including a running billiard clock estimate.
func (s *paymentService) ValidatePayment(ctx context.Context, req dto.ValidatePaymentRequest) (*dto.PaymentValidationResponse, error) {
	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		return nil, apierror.Validation("invoice_id is not a valid uuid")
	}
	inv, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, apierror.NotFound("invoice", req.InvoiceID)
	}
	if inv.Status != model.InvoiceOpen {
		return nil, apierror.BusinessRule("invoice is not open")
	}

	total := inv.Total()
	note := ""
	if session, err := s.billiards.ActiveByInvoice(ctx, invoiceID); err == nil && session.Active() {
		if table, err := s.tables.FindByID(ctx, session.TableID); err == nil && table.HourlyRate != nil {
			minutes := billiardMinutes(session.StartedAt, time.Now())
			estimate := table.HourlyRate.Mul(decimal.NewFromInt(int64(minutes))).Div(decimal.NewFromInt(60)).Round(2)
			total = total.Add(estimate)
			note = "; includes a running billiard session estimated at this instant"
		}
	}

	alreadyPaid, err := s.ledger.SumInvoicePayments(ctx, invoiceID)
	if err != nil {
		return nil, apierror.Database()
	}
	remaining := total.Sub(alreadyPaid)
	isValid := req.Amount.Equal(remaining)
	message := "amount matches the remaining balance" + note
	if !isValid {
		message = fmt.Sprintf("amount must equal the remaining balance %s%s", remaining.StringFixed(2), note)
	}

	return &dto.PaymentValidationResponse{
		InvoiceTotal: total,
		AlreadyPaid:  alreadyPaid,
		Remaining:    remaining,
		IsValid:      isValid,
		Message:      message,
	}, nil
}

// ── ProcessRefund ─────────────────────────────────────────────────────────────

func (s *paymentService) ProcessRefund(ctx context.Context, userID uuid.UUID, req dto.RefundRequest) (*dto.FinanceTransactionResponse, error) {
	day, err := requireOpenDay(ctx, s.days, "process refund")
	if err != nil {
		return nil, err
	}

	originalID, err := uuid.Parse(req.TransactionID)
	if err != nil {
		return nil, apierror.Validation("transaction_id is not a valid uuid")
	}
	original, err := s.ledger.FindByID(ctx, originalID)
	if err != nil {
		return nil, apierror.NotFound("transaction", req.TransactionID)
	}
	if original.TransactionType != model.TxPayment && original.TransactionType != model.TxSales {
		return nil, apierror.BusinessRule("only payment transactions can be refunded")
	}

	// Transactions recorded before the last closing snapshot belong to a
	// settled day; the snapshot is immutable, so they are out of reach.
	if snap, err := s.days.LatestClosingSnapshot(ctx); err == nil {
		if original.TransactionDate.Before(snap.TakenAt) {
			return nil, apierror.BusinessRule("transaction belongs to a settled day and cannot be refunded")
		}
	}

	priorRefunds, err := s.ledger.SumRefundsFor(ctx, originalID)
	if err != nil {
		return nil, apierror.Database()
	}
	refundable := original.Amount.Sub(priorRefunds)
	if req.RefundAmount.GreaterThan(refundable) {
		return nil, apierror.BusinessRule(fmt.Sprintf(
			"refund amount %s exceeds the refundable remainder %s",
			req.RefundAmount.StringFixed(2), refundable.StringFixed(2)))
	}

	reason := req.RefundReason
	refund := model.FinanceTransaction{
		TransactionDate: time.Now(),
		DayID:           day.ID,
		InvoiceID:       original.InvoiceID,
		CustomerID:      original.CustomerID,
		TransactionType: model.TxRefund,
		Amount:          req.RefundAmount,
		PaymentMethod:   original.PaymentMethod,
		Description:     &reason,
		ReferenceID:     &originalID,
		CreatedBy:       userID,
	}
	txErr := runTx(ctx, s.ledger.DB(), func(tx *gorm.DB) error {
		return s.ledger.Append(ctx, tx, &refund)
	})
	if txErr != nil {
		return nil, apierror.Database()
	}

	resp := transactionToResponse(&refund)
	return &resp, nil
}

func (s *paymentService) InvoicePayments(ctx context.Context, invoiceID uuid.UUID) ([]dto.FinanceTransactionResponse, error) {
	fts, err := s.ledger.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, apierror.Database()
	}
	resp := make([]dto.FinanceTransactionResponse, 0, len(fts))
	for _, ft := range fts {
		resp = append(resp, transactionToResponse(&ft))
	}
	return resp, nil
}

// DailyPayments lists every ledger row of the currently open day.
func (s *paymentService) DailyPayments(ctx context.Context) ([]dto.FinanceTransactionResponse, error) {
	day, err := s.days.FindOpen(ctx)
	if err != nil {
		return nil, apierror.BusinessRule("no open day")
	}
	fts, err := s.ledger.ListByDay(ctx, day.ID)
	if err != nil {
		return nil, apierror.Database()
	}
	resp := make([]dto.FinanceTransactionResponse, 0, len(fts))
	for _, ft := range fts {
		resp = append(resp, transactionToResponse(&ft))
	}
	return resp, nil
}

func transactionToResponse(ft *model.FinanceTransaction) dto.FinanceTransactionResponse {
	resp := dto.FinanceTransactionResponse{
		ID:              ft.ID.String(),
		TransactionDate: ft.TransactionDate.Format(time.RFC3339),
		DayID:           ft.DayID.String(),
		TransactionType: ft.TransactionType,
		Amount:          ft.Amount,
		PaymentMethod:   ft.PaymentMethod,
		Description:     ft.Description,
		CreatedBy:       ft.CreatedBy.String(),
	}
	if ft.InvoiceID != nil {
		id := ft.InvoiceID.String()
		resp.InvoiceID = &id
	}
	if ft.CustomerID != nil {
		id := ft.CustomerID.String()
		resp.CustomerID = &id
	}
	if ft.ReferenceID != nil {
		id := ft.ReferenceID.String()
		resp.ReferenceID = &id
	}
	return resp
}

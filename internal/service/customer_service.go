package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Lazvegas61/MyCafe-sql/internal/apierror"
	"github.com/Lazvegas61/MyCafe-sql/internal/dto"
	"github.com/Lazvegas61/MyCafe-sql/internal/model"
	"github.com/Lazvegas61/MyCafe-sql/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	SearchCustomers(ctx context.Context, query string, limit int) ([]dto.CustomerResponse, error)
	CreateDebt(ctx context.Context, userID uuid.UUID, req dto.CreateDebtRequest) (*dto.DebtResponse, error)
	PayDebt(ctx context.Context, userID uuid.UUID, req dto.PayDebtRequest) (*dto.DebtResponse, error)
	CorrectDebt(ctx context.Context, userID uuid.UUID, req dto.CorrectDebtRequest) (*dto.DebtResponse, error)
	Balance(ctx context.Context, id uuid.UUID) (*dto.CustomerBalanceResponse, error)
	Debts(ctx context.Context, id uuid.UUID) ([]dto.FinanceTransactionResponse, error)
	Debtors(ctx context.Context) ([]dto.DebtorResponse, error)
}

type customerService struct {
	repo     repository.CustomerRepository
	invoices repository.InvoiceRepository
	ledger   repository.LedgerRepository
	days     repository.DayRepository
}

func NewCustomerService(
	repo repository.CustomerRepository,
	invoices repository.InvoiceRepository,
	ledger repository.LedgerRepository,
	days repository.DayRepository,
) CustomerService {
	return &customerService{repo: repo, invoices: invoices, ledger: ledger, days: days}
}

func (s *customerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customer := &model.Customer{
		FullName:  req.FullName,
		Phone:     req.Phone,
		Email:     req.Email,
		TotalDebt: decimal.Zero,
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, apierror.BusinessRule("customer with this phone or email already exists")
	}
	resp := customerToResponse(customer)
	return &resp, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("customer", id.String())
	}
	if req.FullName != nil {
		customer.FullName = *req.FullName
	}
	if req.Phone != nil {
		customer.Phone = req.Phone
	}
	if req.Email != nil {
		customer.Email = req.Email
	}
	if req.IsActive != nil {
		// A customer still owing money cannot be retired from the ledger.
		if !*req.IsActive && customer.TotalDebt.GreaterThan(decimal.Zero) {
			return nil, apierror.BusinessRule("customer with outstanding debt cannot be deactivated")
		}
		customer.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, apierror.Database()
	}
	resp := customerToResponse(customer)
	return &resp, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("customer", id.String())
	}
	resp := customerToResponse(customer)
	return &resp, nil
}

func (s *customerService) SearchCustomers(ctx context.Context, query string, limit int) ([]dto.CustomerResponse, error) {
	customers, err := s.repo.Search(ctx, query, limit)
	if err != nil {
		return nil, apierror.Database()
	}
	resp := make([]dto.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		resp = append(resp, customerToResponse(&c))
	}
	return resp, nil
}

// ── Debt ledger operations ────────────────────────────────────────────────────
// All three follow the same shape: validate, append the ledger row, recompute
// the balance from the ledger inside the same tx, refresh the cached total.

func (s *customerService) CreateDebt(ctx context.Context, userID uuid.UUID, req dto.CreateDebtRequest) (*dto.DebtResponse, error) {
	day, err := requireOpenDay(ctx, s.days, "create debt")
	if err != nil {
		return nil, err
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apierror.Validation("customer_id is not a valid uuid")
	}
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, apierror.NotFound("customer", req.CustomerID)
	}
	if !customer.IsActive {
		return nil, apierror.BusinessRule("customer is inactive")
	}
	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		return nil, apierror.Validation("invoice_id is not a valid uuid")
	}
	// Debt is only ever recorded against a real, still-open invoice.
	inv, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, apierror.NotFound("invoice", req.InvoiceID)
	}
	if inv.Status != model.InvoiceOpen {
		return nil, apierror.BusinessRule("debt can only be recorded against an open invoice")
	}

	ft := model.FinanceTransaction{
		TransactionDate: time.Now(),
		DayID:           day.ID,
		InvoiceID:       &invoiceID,
		CustomerID:      &customerID,
		TransactionType: model.TxDebt,
		Amount:          req.Amount,
		Description:     req.Description,
		CreatedBy:       userID,
	}
	balance, txErr := s.appendAndRefresh(ctx, &ft, customerID)
	if txErr != nil {
		return nil, txErr
	}

	return &dto.DebtResponse{
		TransactionID: ft.ID.String(),
		CustomerID:    customerID.String(),
		CustomerName:  customer.FullName,
		Amount:        req.Amount,
		InvoiceID:     &req.InvoiceID,
		Description:   req.Description,
		NewBalance:    balance,
	}, nil
}

func (s *customerService) PayDebt(ctx context.Context, userID uuid.UUID, req dto.PayDebtRequest) (*dto.DebtResponse, error) {
	day, err := requireOpenDay(ctx, s.days, "pay debt")
	if err != nil {
		return nil, err
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apierror.Validation("customer_id is not a valid uuid")
	}
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, apierror.NotFound("customer", req.CustomerID)
	}

	current, err := s.ledger.CustomerBalance(ctx, nil, customerID)
	if err != nil {
		return nil, apierror.Database()
	}
	// Overpayment is rejected outright rather than stored as credit.
	if req.Amount.GreaterThan(current) {
		return nil, apierror.BusinessRule(fmt.Sprintf(
			"payment %s exceeds the outstanding balance %s",
			req.Amount.StringFixed(2), current.StringFixed(2)))
	}

	method := req.PaymentMethod
	ft := model.FinanceTransaction{
		TransactionDate: time.Now(),
		DayID:           day.ID,
		CustomerID:      &customerID,
		TransactionType: model.TxDebtPayment,
		Amount:          req.Amount,
		PaymentMethod:   &method,
		Description:     req.Description,
		CreatedBy:       userID,
	}
	balance, txErr := s.appendAndRefresh(ctx, &ft, customerID)
	if txErr != nil {
		return nil, txErr
	}

	return &dto.DebtResponse{
		TransactionID: ft.ID.String(),
		CustomerID:    customerID.String(),
		CustomerName:  customer.FullName,
		Amount:        req.Amount,
		Description:   req.Description,
		NewBalance:    balance,
	}, nil
}

func (s *customerService) CorrectDebt(ctx context.Context, userID uuid.UUID, req dto.CorrectDebtRequest) (*dto.DebtResponse, error) {
	day, err := requireOpenDay(ctx, s.days, "correct debt")
	if err != nil {
		return nil, err
	}

	if req.CorrectionAmount.IsZero() {
		return nil, apierror.Validation("correction_amount must be non-zero")
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apierror.Validation("customer_id is not a valid uuid")
	}
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, apierror.NotFound("customer", req.CustomerID)
	}

	current, err := s.ledger.CustomerBalance(ctx, nil, customerID)
	if err != nil {
		return nil, apierror.Database()
	}
	if current.Add(req.CorrectionAmount).IsNegative() {
		return nil, apierror.BusinessRule("correction would drive the balance below zero")
	}

	reason := req.Reason
	ft := model.FinanceTransaction{
		TransactionDate: time.Now(),
		DayID:           day.ID,
		CustomerID:      &customerID,
		TransactionType: model.TxCorrection,
		Amount:          req.CorrectionAmount,
		Description:     &reason,
		CreatedBy:       userID,
	}
	balance, txErr := s.appendAndRefresh(ctx, &ft, customerID)
	if txErr != nil {
		return nil, txErr
	}

	return &dto.DebtResponse{
		TransactionID: ft.ID.String(),
		CustomerID:    customerID.String(),
		CustomerName:  customer.FullName,
		Amount:        req.CorrectionAmount,
		Description:   &reason,
		NewBalance:    balance,
	}, nil
}

func (s *customerService) Balance(ctx context.Context, id uuid.UUID) (*dto.CustomerBalanceResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, apierror.NotFound("customer", id.String())
	}
	balance, err := s.ledger.CustomerBalance(ctx, nil, id)
	if err != nil {
		return nil, apierror.Database()
	}
	return &dto.CustomerBalanceResponse{
		CustomerID:     id.String(),
		CurrentBalance: balance,
	}, nil
}

func (s *customerService) Debts(ctx context.Context, id uuid.UUID) ([]dto.FinanceTransactionResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, apierror.NotFound("customer", id.String())
	}
	fts, err := s.ledger.CustomerDebts(ctx, id)
	if err != nil {
		return nil, apierror.Database()
	}
	resp := make([]dto.FinanceTransactionResponse, 0, len(fts))
	for _, ft := range fts {
		resp = append(resp, transactionToResponse(&ft))
	}
	return resp, nil
}

func (s *customerService) Debtors(ctx context.Context) ([]dto.DebtorResponse, error) {
	customers, err := s.repo.Debtors(ctx)
	if err != nil {
		return nil, apierror.Database()
	}
	resp := make([]dto.DebtorResponse, 0, len(customers))
	for _, c := range customers {
		resp = append(resp, dto.DebtorResponse{
			CustomerID: c.ID.String(),
			FullName:   c.FullName,
			Phone:      c.Phone,
			TotalDebt:  c.TotalDebt,
		})
	}
	return resp, nil
}

// appendAndRefresh writes the ledger row and the cached balance in one tx.
func (s *customerService) appendAndRefresh(ctx context.Context, ft *model.FinanceTransaction, customerID uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	txErr := runTx(ctx, s.ledger.DB(), func(tx *gorm.DB) error {
		if err := s.ledger.Append(ctx, tx, ft); err != nil {
			return err
		}
		b, err := s.ledger.CustomerBalance(ctx, tx, customerID)
		if err != nil {
			return err
		}
		balance = b
		return s.repo.UpdateTotalDebt(ctx, tx, customerID, b)
	})
	if txErr != nil {
		return decimal.Zero, apierror.Database()
	}
	return balance, nil
}

func customerToResponse(c *model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:        c.ID.String(),
		FullName:  c.FullName,
		Phone:     c.Phone,
		Email:     c.Email,
		TotalDebt: c.TotalDebt,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

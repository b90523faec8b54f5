package tests

import (
	"context"
	"testing"
	"time"

	"github.com/Lazvegas61/MyCafe-sql/internal/dto"
	"github.com/Lazvegas61/MyCafe-sql/internal/model"
	"github.com/Lazvegas61/MyCafe-sql/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customerFixture struct {
	customers *fakeCustomerRepo
	invoices  *fakeInvoiceRepo
	ledger    *fakeLedgerRepo
	days      *fakeDayRepo
	svc       service.CustomerService
}

func newCustomerFixture(t *testing.T, dayOpen bool) *customerFixture {
	t.Helper()
	f := &customerFixture{
		customers: newFakeCustomerRepo(),
		invoices:  newFakeInvoiceRepo(),
		ledger:    newFakeLedgerRepo(),
		days:      newFakeDayRepo(),
	}
	f.svc = service.NewCustomerService(f.customers, f.invoices, f.ledger, f.days)
	if dayOpen {
		require.NoError(t, f.days.Create(context.Background(), nil, &model.Day{
			DayDate: time.Now(), IsOpen: true, OpenedAt: time.Now(), OpenedBy: uuid.New(),
		}))
	}
	return f
}

func (f *customerFixture) customer(t *testing.T, name string) *model.Customer {
	t.Helper()
	c := &model.Customer{FullName: name, TotalDebt: decimal.Zero, IsActive: true}
	require.NoError(t, f.customers.Create(context.Background(), c))
	return c
}

func (f *customerFixture) invoice(t *testing.T, status string) *model.Invoice {
	t.Helper()
	inv := &model.Invoice{
		TableID:  uuid.New(),
		Status:   status,
		OpenedAt: time.Now(),
		OpenedBy: uuid.New(),
	}
	require.NoError(t, f.invoices.Create(context.Background(), nil, inv))
	return inv
}

func TestCreateDebtRaisesBalance(t *testing.T) {
	f := newCustomerFixture(t, true)
	c := f.customer(t, "Frequent Guest")

	resp, err := f.svc.CreateDebt(context.Background(), uuid.New(), dto.CreateDebtRequest{
		CustomerID: c.ID.String(),
		InvoiceID:  f.invoice(t, model.InvoiceOpen).ID.String(),
		Amount:     decimal.NewFromInt(120),
	})
	require.NoError(t, err)
	assert.Equal(t, "120", resp.NewBalance.String())
	assert.Equal(t, "120", c.TotalDebt.String())
}

func TestCreateDebtClosedDay(t *testing.T) {
	f := newCustomerFixture(t, false)
	c := f.customer(t, "Guest")

	_, err := f.svc.CreateDebt(context.Background(), uuid.New(), dto.CreateDebtRequest{
		CustomerID: c.ID.String(),
		InvoiceID:  f.invoice(t, model.InvoiceOpen).ID.String(),
		Amount:     decimal.NewFromInt(10),
	})
	assert.ErrorContains(t, err, "day is closed")
}

func TestCreateDebtClosedInvoiceRejected(t *testing.T) {
	f := newCustomerFixture(t, true)
	c := f.customer(t, "Guest")

	_, err := f.svc.CreateDebt(context.Background(), uuid.New(), dto.CreateDebtRequest{
		CustomerID: c.ID.String(),
		InvoiceID:  f.invoice(t, model.InvoiceClosed).ID.String(),
		Amount:     decimal.NewFromInt(25),
	})
	assert.ErrorContains(t, err, "open invoice")
	assert.Empty(t, f.ledger.rows)
	assert.Equal(t, "0", c.TotalDebt.String())
}

func TestCreateDebtUnknownInvoiceRejected(t *testing.T) {
	f := newCustomerFixture(t, true)
	c := f.customer(t, "Guest")

	_, err := f.svc.CreateDebt(context.Background(), uuid.New(), dto.CreateDebtRequest{
		CustomerID: c.ID.String(),
		InvoiceID:  uuid.New().String(),
		Amount:     decimal.NewFromInt(25),
	})
	assert.ErrorContains(t, err, "invoice not found")
	assert.Empty(t, f.ledger.rows)
}

func TestPayDebtOverpaymentRejected(t *testing.T) {
	f := newCustomerFixture(t, true)
	c := f.customer(t, "Guest")

	_, err := f.svc.CreateDebt(context.Background(), uuid.New(), dto.CreateDebtRequest{
		CustomerID: c.ID.String(),
		InvoiceID:  f.invoice(t, model.InvoiceOpen).ID.String(),
		Amount:     decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	_, err = f.svc.PayDebt(context.Background(), uuid.New(), dto.PayDebtRequest{
		CustomerID:    c.ID.String(),
		Amount:        decimal.NewFromInt(80),
		PaymentMethod: model.MethodCash,
	})
	assert.ErrorContains(t, err, "exceeds the outstanding balance")

	resp, err := f.svc.PayDebt(context.Background(), uuid.New(), dto.PayDebtRequest{
		CustomerID:    c.ID.String(),
		Amount:        decimal.NewFromInt(30),
		PaymentMethod: model.MethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, "20", resp.NewBalance.String())
	assert.Equal(t, "20", c.TotalDebt.String())
}

func TestCorrectDebtCannotGoNegative(t *testing.T) {
	f := newCustomerFixture(t, true)
	c := f.customer(t, "Guest")

	_, err := f.svc.CreateDebt(context.Background(), uuid.New(), dto.CreateDebtRequest{
		CustomerID: c.ID.String(),
		InvoiceID:  f.invoice(t, model.InvoiceOpen).ID.String(),
		Amount:     decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	_, err = f.svc.CorrectDebt(context.Background(), uuid.New(), dto.CorrectDebtRequest{
		CustomerID:       c.ID.String(),
		CorrectionAmount: decimal.NewFromInt(-60),
		Reason:           "entered twice by accident",
	})
	assert.ErrorContains(t, err, "below zero")

	resp, err := f.svc.CorrectDebt(context.Background(), uuid.New(), dto.CorrectDebtRequest{
		CustomerID:       c.ID.String(),
		CorrectionAmount: decimal.NewFromInt(-40),
		Reason:           "entered twice by accident",
	})
	require.NoError(t, err)
	assert.Equal(t, "0", resp.NewBalance.String())
}

func TestLedgerIsAppendOnly(t *testing.T) {
	f := newCustomerFixture(t, true)
	c := f.customer(t, "Guest")

	_, err := f.svc.CreateDebt(context.Background(), uuid.New(), dto.CreateDebtRequest{
		CustomerID: c.ID.String(),
		InvoiceID:  f.invoice(t, model.InvoiceOpen).ID.String(),
		Amount:     decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	_, err = f.svc.PayDebt(context.Background(), uuid.New(), dto.PayDebtRequest{
		CustomerID:    c.ID.String(),
		Amount:        decimal.NewFromInt(100),
		PaymentMethod: model.MethodCard,
	})
	require.NoError(t, err)

	// Every operation is a new row; nothing is rewritten.
	require.Len(t, f.ledger.rows, 2)
	assert.Equal(t, model.TxDebt, f.ledger.rows[0].TransactionType)
	assert.Equal(t, model.TxDebtPayment, f.ledger.rows[1].TransactionType)
	assert.Equal(t, "0", c.TotalDebt.String())
}

func TestDeactivateCustomerWithDebtRejected(t *testing.T) {
	f := newCustomerFixture(t, true)
	c := f.customer(t, "Guest")

	_, err := f.svc.CreateDebt(context.Background(), uuid.New(), dto.CreateDebtRequest{
		CustomerID: c.ID.String(),
		InvoiceID:  f.invoice(t, model.InvoiceOpen).ID.String(),
		Amount:     decimal.NewFromInt(15),
	})
	require.NoError(t, err)

	inactive := false
	_, err = f.svc.UpdateCustomer(context.Background(), c.ID, dto.UpdateCustomerRequest{IsActive: &inactive})
	assert.ErrorContains(t, err, "outstanding debt cannot be deactivated")

	_, err = f.svc.PayDebt(context.Background(), uuid.New(), dto.PayDebtRequest{
		CustomerID:    c.ID.String(),
		Amount:        decimal.NewFromInt(15),
		PaymentMethod: model.MethodCash,
	})
	require.NoError(t, err)

	resp, err := f.svc.UpdateCustomer(context.Background(), c.ID, dto.UpdateCustomerRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
}

func TestDebtorsListsOnlyPositiveBalances(t *testing.T) {
	f := newCustomerFixture(t, true)
	debtor := f.customer(t, "Owes Money")
	f.customer(t, "Paid Up")

	_, err := f.svc.CreateDebt(context.Background(), uuid.New(), dto.CreateDebtRequest{
		CustomerID: debtor.ID.String(),
		InvoiceID:  f.invoice(t, model.InvoiceOpen).ID.String(),
		Amount:     decimal.NewFromInt(65),
	})
	require.NoError(t, err)

	debtors, err := f.svc.Debtors(context.Background())
	require.NoError(t, err)
	require.Len(t, debtors, 1)
	assert.Equal(t, "Owes Money", debtors[0].FullName)
	assert.Equal(t, "65", debtors[0].TotalDebt.String())
}

package tests

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Lazvegas61/MyCafe-sql/internal/authz"
	"github.com/Lazvegas61/MyCafe-sql/internal/model"
	"github.com/Lazvegas61/MyCafe-sql/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDayService(days *fakeDayRepo, invoices *fakeInvoiceRepo, ledger *fakeLedgerRepo) service.DayService {
	return service.NewDayService(days, invoices, ledger, nil)
}

func TestOpenDay(t *testing.T) {
	days := newFakeDayRepo()
	svc := newDayService(days, newFakeInvoiceRepo(), newFakeLedgerRepo())

	resp, err := svc.OpenDay(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.True(t, resp.IsOpen)
	assert.Equal(t, time.Now().Format("2006-01-02"), resp.DayDate)

	// Opening freezes a zeroed snapshot.
	require.Len(t, days.snapshots, 1)
	assert.Equal(t, model.SnapshotOpening, days.snapshots[0].SnapshotType)
}

func TestOpenDayAlreadyOpen(t *testing.T) {
	svc := newDayService(newFakeDayRepo(), newFakeInvoiceRepo(), newFakeLedgerRepo())

	_, err := svc.OpenDay(context.Background(), uuid.New())
	require.NoError(t, err)

	_, err = svc.OpenDay(context.Background(), uuid.New())
	assert.ErrorContains(t, err, "already open")
}

func TestReopenClosedDayRejected(t *testing.T) {
	svc := newDayService(newFakeDayRepo(), newFakeInvoiceRepo(), newFakeLedgerRepo())
	userID := uuid.New()

	_, err := svc.OpenDay(context.Background(), userID)
	require.NoError(t, err)
	_, err = svc.CloseDay(context.Background(), userID)
	require.NoError(t, err)

	// Same calendar date cannot be opened a second time.
	_, err = svc.OpenDay(context.Background(), userID)
	assert.ErrorContains(t, err, "cannot be reopened")
}

func TestCloseDayWithOpenInvoicesRejected(t *testing.T) {
	days := newFakeDayRepo()
	invoices := newFakeInvoiceRepo()
	svc := newDayService(days, invoices, newFakeLedgerRepo())

	_, err := svc.OpenDay(context.Background(), uuid.New())
	require.NoError(t, err)

	require.NoError(t, invoices.Create(context.Background(), nil, &model.Invoice{
		TableID:  uuid.New(),
		Status:   model.InvoiceOpen,
		OpenedAt: time.Now(),
		OpenedBy: uuid.New(),
	}))

	_, err = svc.CloseDay(context.Background(), uuid.New())
	assert.ErrorContains(t, err, "settled before closing")
}

func TestCloseDaySnapshotTotals(t *testing.T) {
	days := newFakeDayRepo()
	ledger := newFakeLedgerRepo()
	svc := newDayService(days, newFakeInvoiceRepo(), ledger)
	userID := uuid.New()

	open, err := svc.OpenDay(context.Background(), userID)
	require.NoError(t, err)
	dayID := uuid.MustParse(open.ID)

	cash, card := model.MethodCash, model.MethodCard
	seed := []model.FinanceTransaction{
		{DayID: dayID, TransactionType: model.TxPayment, Amount: decimal.NewFromInt(100), PaymentMethod: &cash},
		{DayID: dayID, TransactionType: model.TxPayment, Amount: decimal.NewFromInt(250), PaymentMethod: &card},
		{DayID: dayID, TransactionType: model.TxDebt, Amount: decimal.NewFromInt(80)},
		{DayID: dayID, TransactionType: model.TxDebtPayment, Amount: decimal.NewFromInt(30), PaymentMethod: &cash},
		{DayID: dayID, TransactionType: model.TxRefund, Amount: decimal.NewFromInt(50), PaymentMethod: &card},
	}
	for i := range seed {
		seed[i].TransactionDate = time.Now()
		require.NoError(t, ledger.Append(context.Background(), nil, &seed[i]))
	}

	_, err = svc.CloseDay(context.Background(), userID)
	require.NoError(t, err)

	var closing *model.DaySnapshot
	for i := range days.snapshots {
		if days.snapshots[i].SnapshotType == model.SnapshotClosing {
			closing = &days.snapshots[i]
		}
	}
	require.NotNil(t, closing)

	var data struct {
		TotalSales       decimal.Decimal `json:"total_sales"`
		CashPayments     decimal.Decimal `json:"cash_payments"`
		CardPayments     decimal.Decimal `json:"card_payments"`
		DebtCreated      decimal.Decimal `json:"debt_created"`
		DebtPaid         decimal.Decimal `json:"debt_paid"`
		Refunds          decimal.Decimal `json:"refunds"`
		TransactionCount int             `json:"transaction_count"`
	}
	require.NoError(t, json.Unmarshal(closing.Data, &data))

	// 100 + 250 payments + 80 debt sale − 50 refund = 380
	assert.Equal(t, "380", data.TotalSales.String())
	// 100 payment + 30 debt payment
	assert.Equal(t, "130", data.CashPayments.String())
	// 250 payment − 50 refund
	assert.Equal(t, "200", data.CardPayments.String())
	assert.Equal(t, "80", data.DebtCreated.String())
	assert.Equal(t, "30", data.DebtPaid.String())
	assert.Equal(t, "50", data.Refunds.String())
	assert.Equal(t, 5, data.TransactionCount)
}

func TestDayStatusNoOpenDay(t *testing.T) {
	svc := newDayService(newFakeDayRepo(), newFakeInvoiceRepo(), newFakeLedgerRepo())

	status, err := svc.GetStatus(context.Background())
	require.NoError(t, err)
	assert.False(t, status.IsOpen)
	assert.False(t, status.CanOperate)
}

func TestHistoricalDayRestrictedForFloorStaff(t *testing.T) {
	days := newFakeDayRepo()
	svc := newDayService(days, newFakeInvoiceRepo(), newFakeLedgerRepo())
	userID := uuid.New()

	open, err := svc.OpenDay(context.Background(), userID)
	require.NoError(t, err)
	dayID := uuid.MustParse(open.ID)
	_, err = svc.CloseDay(context.Background(), userID)
	require.NoError(t, err)

	_, err = svc.GetDayByID(context.Background(), dayID, authz.RoleWaiter)
	assert.ErrorContains(t, err, "restricted to administrators")

	resp, err := svc.GetDayByID(context.Background(), dayID, authz.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, resp.IsOpen)
}

package repository

import (
	"context"

	"github.com/Lazvegas61/MyCafe-sql/internal/dto"
	"github.com/Lazvegas61/MyCafe-sql/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerRepository is append-only: finance transactions are never updated or
// deleted. Refunds and corrections are new rows pointing back via reference_id.
type LedgerRepository interface {
	Append(ctx context.Context, tx *gorm.DB, ft *model.FinanceTransaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.FinanceTransaction, error)
	SumInvoicePayments(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)
	CountByInvoice(ctx context.Context, invoiceID uuid.UUID) (int64, error)
	SumRefundsFor(ctx context.Context, originalID uuid.UUID) (decimal.Decimal, error)
	CustomerBalance(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) (decimal.Decimal, error)
	CustomerDebts(ctx context.Context, customerID uuid.UUID) ([]model.FinanceTransaction, error)
	List(ctx context.Context, filter dto.FinanceTransactionFilter) ([]model.FinanceTransaction, int64, error)
	ListByDay(ctx context.Context, dayID uuid.UUID) ([]model.FinanceTransaction, error)
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.FinanceTransaction, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ledgerRepo struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) LedgerRepository { return &ledgerRepo{db: db} }

func (r *ledgerRepo) DB() *gorm.DB { return r.db }

func (r *ledgerRepo) Append(ctx context.Context, tx *gorm.DB, ft *model.FinanceTransaction) error {
	return tx.WithContext(ctx).Create(ft).Error
}

func (r *ledgerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.FinanceTransaction, error) {
	var ft model.FinanceTransaction
	err := r.db.WithContext(ctx).First(&ft, id).Error
	return &ft, err
}

func (r *ledgerRepo) SumInvoicePayments(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	return r.sumWhere(ctx, r.db,
		"invoice_id = ? AND transaction_type IN ?",
		invoiceID, []string{model.TxPayment, model.TxSales})
}

func (r *ledgerRepo) CountByInvoice(ctx context.Context, invoiceID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.FinanceTransaction{}).
		Where("invoice_id = ?", invoiceID).Count(&n).Error
	return n, err
}

func (r *ledgerRepo) SumRefundsFor(ctx context.Context, originalID uuid.UUID) (decimal.Decimal, error) {
	return r.sumWhere(ctx, r.db,
		"reference_id = ? AND transaction_type = ?",
		originalID, model.TxRefund)
}

// CustomerBalance folds the ledger: debts raise it, debt payments lower it,
// corrections apply signed. Runs on tx when given so a balance read inside a
// payment transaction sees uncommitted rows of that same transaction.
func (r *ledgerRepo) CustomerBalance(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) (decimal.Decimal, error) {
	db := r.db
	if tx != nil {
		db = tx
	}

	debt, err := r.sumWhere(ctx, db, "customer_id = ? AND transaction_type = ?", customerID, model.TxDebt)
	if err != nil {
		return decimal.Zero, err
	}
	paid, err := r.sumWhere(ctx, db, "customer_id = ? AND transaction_type = ?", customerID, model.TxDebtPayment)
	if err != nil {
		return decimal.Zero, err
	}
	corr, err := r.sumWhere(ctx, db, "customer_id = ? AND transaction_type = ?", customerID, model.TxCorrection)
	if err != nil {
		return decimal.Zero, err
	}
	return debt.Sub(paid).Add(corr), nil
}

func (r *ledgerRepo) CustomerDebts(ctx context.Context, customerID uuid.UUID) ([]model.FinanceTransaction, error) {
	var fts []model.FinanceTransaction
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND transaction_type IN ?", customerID,
			[]string{model.TxDebt, model.TxDebtPayment, model.TxCorrection}).
		Order("transaction_date ASC").Find(&fts).Error
	return fts, err
}

func (r *ledgerRepo) List(ctx context.Context, filter dto.FinanceTransactionFilter) ([]model.FinanceTransaction, int64, error) {
	var fts []model.FinanceTransaction
	var total int64

	q := r.db.WithContext(ctx).Model(&model.FinanceTransaction{})
	if filter.DayID != "" {
		q = q.Where("day_id = ?", filter.DayID)
	}
	if filter.TransactionType != "" {
		q = q.Where("transaction_type = ?", filter.TransactionType)
	}
	if filter.StartDate != "" {
		q = q.Where("DATE(transaction_date) >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		q = q.Where("DATE(transaction_date) <= ?", filter.EndDate)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	err := q.Order("transaction_date DESC").Offset(filter.Offset).Limit(limit).Find(&fts).Error
	return fts, total, err
}

func (r *ledgerRepo) ListByDay(ctx context.Context, dayID uuid.UUID) ([]model.FinanceTransaction, error) {
	var fts []model.FinanceTransaction
	err := r.db.WithContext(ctx).Where("day_id = ?", dayID).
		Order("transaction_date ASC").Find(&fts).Error
	return fts, err
}

func (r *ledgerRepo) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.FinanceTransaction, error) {
	var fts []model.FinanceTransaction
	err := r.db.WithContext(ctx).Where("invoice_id = ?", invoiceID).
		Order("transaction_date ASC").Find(&fts).Error
	return fts, err
}

func (r *ledgerRepo) sumWhere(ctx context.Context, db *gorm.DB, cond string, args ...interface{}) (decimal.Decimal, error) {
	var raw *string
	err := db.WithContext(ctx).Model(&model.FinanceTransaction{}).
		Select("SUM(amount)").Where(cond, args...).Scan(&raw).Error
	if err != nil || raw == nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(*raw)
}

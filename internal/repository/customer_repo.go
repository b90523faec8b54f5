package repository

import (
	"context"

	"github.com/Lazvegas61/MyCafe-sql/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error
	Search(ctx context.Context, query string, limit int) ([]model.Customer, error)
	UpdateTotalDebt(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, newTotal decimal.Decimal) error
	Debtors(ctx context.Context) ([]model.Customer, error)
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customerRepo) Search(ctx context.Context, query string, limit int) ([]model.Customer, error) {
	var customers []model.Customer
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("full_name ILIKE ? OR phone ILIKE ?", like, like)
	}
	if limit <= 0 {
		limit = 50
	}
	err := q.Order("full_name ASC").Limit(limit).Find(&customers).Error
	return customers, err
}

// UpdateTotalDebt must only be called inside a ledger transaction with a
// total recomputed from the ledger. The column is a read cache, the
// finance_transactions rows are the source of truth.
func (r *customerRepo) UpdateTotalDebt(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, newTotal decimal.Decimal) error {
	return tx.WithContext(ctx).Model(&model.Customer{}).Where("id = ?", customerID).
		Update("total_debt", newTotal).Error
}

func (r *customerRepo) Debtors(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).
		Where("total_debt > 0").
		Order("total_debt DESC").Find(&customers).Error
	return customers, err
}

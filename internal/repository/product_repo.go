package repository

import (
	"context"

	"github.com/Lazvegas61/MyCafe-sql/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, category string) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	DecrementStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty decimal.Decimal) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context, category string) ([]model.Product, error) {
	var products []model.Product
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// DecrementStock may take stock negative; sales are never blocked on
// inventory, the discrepancy surfaces in the stock report instead.
func (r *productRepo) DecrementStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty decimal.Decimal) error {
	return tx.WithContext(ctx).Model(&model.Product{}).Where("id = ?", productID).
		Update("stock", gorm.Expr("stock - ?", qty)).Error
}

package repository

import (
	"context"

	"github.com/Lazvegas61/MyCafe-sql/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TableRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Table, error)
	List(ctx context.Context) ([]model.Table, error)
	ListAvailable(ctx context.Context) ([]model.Table, error)
	BindInvoice(ctx context.Context, tx *gorm.DB, tableID, invoiceID uuid.UUID) error
	Release(ctx context.Context, tx *gorm.DB, tableID uuid.UUID) error
}

type tableRepo struct{ db *gorm.DB }

func NewTableRepository(db *gorm.DB) TableRepository { return &tableRepo{db: db} }

func (r *tableRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Table, error) {
	var t model.Table
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *tableRepo) List(ctx context.Context) ([]model.Table, error) {
	var tables []model.Table
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("table_number ASC").Find(&tables).Error
	return tables, err
}

func (r *tableRepo) ListAvailable(ctx context.Context) ([]model.Table, error) {
	var tables []model.Table
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND current_invoice_id IS NULL", true).
		Order("table_number ASC").Find(&tables).Error
	return tables, err
}

func (r *tableRepo) BindInvoice(ctx context.Context, tx *gorm.DB, tableID, invoiceID uuid.UUID) error {
	return tx.WithContext(ctx).Model(&model.Table{}).Where("id = ?", tableID).
		Update("current_invoice_id", invoiceID).Error
}

func (r *tableRepo) Release(ctx context.Context, tx *gorm.DB, tableID uuid.UUID) error {
	return tx.WithContext(ctx).Model(&model.Table{}).Where("id = ?", tableID).
		Update("current_invoice_id", nil).Error
}

package repository

import (
	"context"
	"time"

	"github.com/Lazvegas61/MyCafe-sql/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	Create(ctx context.Context, tx *gorm.DB, inv *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	FindOpenByTable(ctx context.Context, tableID uuid.UUID) (*model.Invoice, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string, closedBy *uuid.UUID, closedAt *time.Time) error
	AddLine(ctx context.Context, tx *gorm.DB, line *model.InvoiceLine) error
	FindLine(ctx context.Context, lineID uuid.UUID) (*model.InvoiceLine, error)
	RemoveLine(ctx context.Context, lineID, removedBy uuid.UUID) error
	ListOpen(ctx context.Context) ([]model.Invoice, error)
	CountOpen(ctx context.Context) (int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type invoiceRepo struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository { return &invoiceRepo{db: db} }

func (r *invoiceRepo) DB() *gorm.DB { return r.db }

func (r *invoiceRepo) Create(ctx context.Context, tx *gorm.DB, inv *model.Invoice) error {
	return tx.WithContext(ctx).Create(inv).Error
}

func (r *invoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).Preload("Lines").First(&inv, id).Error
	return &inv, err
}

func (r *invoiceRepo) FindOpenByTable(ctx context.Context, tableID uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).Preload("Lines").
		Where("table_id = ? AND status = ?", tableID, model.InvoiceOpen).
		First(&inv).Error
	return &inv, err
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string, closedBy *uuid.UUID, closedAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if closedBy != nil {
		updates["closed_by"] = *closedBy
	}
	if closedAt != nil {
		updates["closed_at"] = *closedAt
	}
	return tx.WithContext(ctx).Model(&model.Invoice{}).Where("id = ?", id).Updates(updates).Error
}

// AddLine inserts a line, joining the caller's transaction when one is given.
func (r *invoiceRepo) AddLine(ctx context.Context, tx *gorm.DB, line *model.InvoiceLine) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Create(line).Error
}

func (r *invoiceRepo) FindLine(ctx context.Context, lineID uuid.UUID) (*model.InvoiceLine, error) {
	var line model.InvoiceLine
	err := r.db.WithContext(ctx).First(&line, lineID).Error
	return &line, err
}

// RemoveLine soft-deletes: the row stays for audit, totals skip it.
func (r *invoiceRepo) RemoveLine(ctx context.Context, lineID, removedBy uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.InvoiceLine{}).Where("id = ?", lineID).
		Updates(map[string]interface{}{"removed": true, "removed_by": removedBy}).Error
}

func (r *invoiceRepo) ListOpen(ctx context.Context) ([]model.Invoice, error) {
	var invs []model.Invoice
	err := r.db.WithContext(ctx).Preload("Lines").
		Where("status = ?", model.InvoiceOpen).
		Order("opened_at ASC").Find(&invs).Error
	return invs, err
}

func (r *invoiceRepo) CountOpen(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("status = ?", model.InvoiceOpen).Count(&n).Error
	return n, err
}

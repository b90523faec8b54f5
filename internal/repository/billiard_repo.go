package repository

import (
	"context"

	"github.com/Lazvegas61/MyCafe-sql/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BilliardRepository interface {
	Create(ctx context.Context, s *model.BilliardSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BilliardSession, error)
	ActiveByInvoice(ctx context.Context, invoiceID uuid.UUID) (*model.BilliardSession, error)
	ActiveByTable(ctx context.Context, tableID uuid.UUID) (*model.BilliardSession, error)
	End(ctx context.Context, tx *gorm.DB, s *model.BilliardSession) error
}

type billiardRepo struct{ db *gorm.DB }

func NewBilliardRepository(db *gorm.DB) BilliardRepository { return &billiardRepo{db: db} }

func (r *billiardRepo) Create(ctx context.Context, s *model.BilliardSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *billiardRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.BilliardSession, error) {
	var s model.BilliardSession
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *billiardRepo) ActiveByInvoice(ctx context.Context, invoiceID uuid.UUID) (*model.BilliardSession, error) {
	var s model.BilliardSession
	err := r.db.WithContext(ctx).
		Where("invoice_id = ? AND ended_at IS NULL", invoiceID).First(&s).Error
	return &s, err
}

func (r *billiardRepo) ActiveByTable(ctx context.Context, tableID uuid.UUID) (*model.BilliardSession, error) {
	var s model.BilliardSession
	err := r.db.WithContext(ctx).
		Where("table_id = ? AND ended_at IS NULL", tableID).First(&s).Error
	return &s, err
}

func (r *billiardRepo) End(ctx context.Context, tx *gorm.DB, s *model.BilliardSession) error {
	return tx.WithContext(ctx).Model(&model.BilliardSession{}).Where("id = ?", s.ID).
		Updates(map[string]interface{}{
			"ended_at":         s.EndedAt,
			"duration_minutes": s.DurationMinutes,
			"amount":           s.Amount,
			"ended_by":         s.EndedBy,
		}).Error
}

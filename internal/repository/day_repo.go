package repository

import (
	"context"
	"time"

	"github.com/Lazvegas61/MyCafe-sql/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DayRepository interface {
	Create(ctx context.Context, tx *gorm.DB, d *model.Day) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Day, error)
	FindOpen(ctx context.Context) (*model.Day, error)
	FindByDate(ctx context.Context, date time.Time) (*model.Day, error)
	Close(ctx context.Context, tx *gorm.DB, d *model.Day) error
	CreateSnapshot(ctx context.Context, tx *gorm.DB, s *model.DaySnapshot) error
	Snapshots(ctx context.Context, dayID uuid.UUID) ([]model.DaySnapshot, error)
	LatestClosingSnapshot(ctx context.Context) (*model.DaySnapshot, error)
	List(ctx context.Context, limit, offset int) ([]model.Day, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type dayRepo struct{ db *gorm.DB }

func NewDayRepository(db *gorm.DB) DayRepository { return &dayRepo{db: db} }

func (r *dayRepo) DB() *gorm.DB { return r.db }

func (r *dayRepo) Create(ctx context.Context, tx *gorm.DB, d *model.Day) error {
	return tx.WithContext(ctx).Create(d).Error
}

func (r *dayRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Day, error) {
	var d model.Day
	err := r.db.WithContext(ctx).Preload("Snapshots").First(&d, id).Error
	return &d, err
}

// FindOpen relies on the partial unique index: at most one row has is_open = true.
func (r *dayRepo) FindOpen(ctx context.Context) (*model.Day, error) {
	var d model.Day
	err := r.db.WithContext(ctx).Where("is_open = ?", true).First(&d).Error
	return &d, err
}

func (r *dayRepo) FindByDate(ctx context.Context, date time.Time) (*model.Day, error) {
	var d model.Day
	err := r.db.WithContext(ctx).Where("day_date = ?", date.Format("2006-01-02")).First(&d).Error
	return &d, err
}

func (r *dayRepo) Close(ctx context.Context, tx *gorm.DB, d *model.Day) error {
	return tx.WithContext(ctx).Model(&model.Day{}).Where("id = ?", d.ID).
		Updates(map[string]interface{}{
			"is_open":   false,
			"closed_at": d.ClosedAt,
			"closed_by": d.ClosedBy,
		}).Error
}

func (r *dayRepo) CreateSnapshot(ctx context.Context, tx *gorm.DB, s *model.DaySnapshot) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *dayRepo) Snapshots(ctx context.Context, dayID uuid.UUID) ([]model.DaySnapshot, error) {
	var snaps []model.DaySnapshot
	err := r.db.WithContext(ctx).Where("day_id = ?", dayID).Order("taken_at ASC").Find(&snaps).Error
	return snaps, err
}

// LatestClosingSnapshot marks the refund boundary: transactions recorded
// before it belong to an already-settled day and cannot be refunded.
func (r *dayRepo) LatestClosingSnapshot(ctx context.Context) (*model.DaySnapshot, error) {
	var s model.DaySnapshot
	err := r.db.WithContext(ctx).
		Where("snapshot_type = ?", model.SnapshotClosing).
		Order("taken_at DESC").First(&s).Error
	return &s, err
}

func (r *dayRepo) List(ctx context.Context, limit, offset int) ([]model.Day, int64, error) {
	var days []model.Day
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Day{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("day_date DESC").Offset(offset).Limit(limit).Find(&days).Error
	return days, total, err
}

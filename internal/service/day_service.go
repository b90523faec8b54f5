package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Lazvegas61/MyCafe-sql/internal/apierror"
	"github.com/Lazvegas61/MyCafe-sql/internal/authz"
	"github.com/Lazvegas61/MyCafe-sql/internal/dto"
	"github.com/Lazvegas61/MyCafe-sql/internal/model"
	"github.com/Lazvegas61/MyCafe-sql/internal/repository"
	"github.com/Lazvegas61/MyCafe-sql/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DayService interface {
	OpenDay(ctx context.Context, userID uuid.UUID) (*dto.DayResponse, error)
	CloseDay(ctx context.Context, userID uuid.UUID) (*dto.DayResponse, error)
	GetStatus(ctx context.Context) (*dto.DayStatusResponse, error)
	GetCurrentDay(ctx context.Context) (*dto.DayResponse, error)
	GetDayByID(ctx context.Context, id uuid.UUID, role authz.Role) (*dto.DayResponse, error)
	GetSnapshots(ctx context.Context, dayID uuid.UUID) ([]dto.DaySnapshotResponse, error)
	ListDays(ctx context.Context, limit, offset int) ([]dto.DayResponse, int64, error)
}

type dayService struct {
	repo       repository.DayRepository
	invoices   repository.InvoiceRepository
	ledger     repository.LedgerRepository
	dispatcher *worker.Dispatcher
}

func NewDayService(
	repo repository.DayRepository,
	invoices repository.InvoiceRepository,
	ledger repository.LedgerRepository,
	dispatcher *worker.Dispatcher,
) DayService {
	return &dayService{repo: repo, invoices: invoices, ledger: ledger, dispatcher: dispatcher}
}

// snapshotPayload is the frozen financial picture stored in day_snapshots.data.
type snapshotPayload struct {
	DayDate          string          `json:"day_date"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	CashPayments     decimal.Decimal `json:"cash_payments"`
	CardPayments     decimal.Decimal `json:"card_payments"`
	DebtCreated      decimal.Decimal `json:"debt_created"`
	DebtPaid         decimal.Decimal `json:"debt_paid"`
	Refunds          decimal.Decimal `json:"refunds"`
	TransactionCount int             `json:"transaction_count"`
	OpenInvoices     int64           `json:"open_invoices"`
}

func (s *dayService) OpenDay(ctx context.Context, userID uuid.UUID) (*dto.DayResponse, error) {
	if _, err := s.repo.FindOpen(ctx); err == nil {
		return nil, apierror.BusinessRule("a day is already open; close it before opening a new one")
	}

	now := time.Now()
	// Midnight in the server's location; Truncate would flip at UTC midnight.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if existing, err := s.repo.FindByDate(ctx, today); err == nil && !existing.IsOpen {
		return nil, apierror.BusinessRule("the day for this date was already closed and cannot be reopened")
	}

	day := &model.Day{
		DayDate:  today,
		IsOpen:   true,
		OpenedAt: now,
		OpenedBy: userID,
	}

	openCount, err := s.invoices.CountOpen(ctx)
	if err != nil {
		openCount = 0
	}
	payload := snapshotPayload{
		DayDate:          today.Format("2006-01-02"),
		TotalSales:       decimal.Zero,
		CashPayments:     decimal.Zero,
		CardPayments:     decimal.Zero,
		DebtCreated:      decimal.Zero,
		DebtPaid:         decimal.Zero,
		Refunds:          decimal.Zero,
		TransactionCount: 0,
		OpenInvoices:     openCount,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, day); err != nil {
			return err
		}
		snap := &model.DaySnapshot{
			DayID:        day.ID,
			SnapshotType: model.SnapshotOpening,
			TakenAt:      now,
			Data:         data,
		}
		return s.repo.CreateSnapshot(ctx, tx, snap)
	})
	if txErr != nil {
		return nil, apierror.Database()
	}

	resp := dayToResponse(day)
	return &resp, nil
}

func (s *dayService) CloseDay(ctx context.Context, userID uuid.UUID) (*dto.DayResponse, error) {
	day, err := s.repo.FindOpen(ctx)
	if err != nil {
		return nil, apierror.BusinessRule("no open day to close")
	}

	openCount, err := s.invoices.CountOpen(ctx)
	if err != nil {
		return nil, apierror.Database()
	}
	if openCount > 0 {
		return nil, apierror.BusinessRule("all invoices must be settled before closing the day")
	}

	fts, err := s.ledger.ListByDay(ctx, day.ID)
	if err != nil {
		return nil, apierror.Database()
	}
	summary := summarizeTransactions(fts)
	payload := snapshotPayload{
		DayDate:          day.DayDate.Format("2006-01-02"),
		TotalSales:       summary.TotalSales,
		CashPayments:     summary.CashPayments,
		CardPayments:     summary.CardPayments,
		DebtCreated:      summary.DebtCreated,
		DebtPaid:         summary.DebtPaid,
		Refunds:          summary.Refunds,
		TransactionCount: summary.TransactionCount,
		OpenInvoices:     0,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	day.IsOpen = false
	day.ClosedAt = &now
	day.ClosedBy = &userID

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		snap := &model.DaySnapshot{
			DayID:        day.ID,
			SnapshotType: model.SnapshotClosing,
			TakenAt:      now,
			Data:         data,
		}
		if err := s.repo.CreateSnapshot(ctx, tx, snap); err != nil {
			return err
		}
		return s.repo.Close(ctx, tx, day)
	})
	if txErr != nil {
		return nil, apierror.Database()
	}

	// Best effort: the closing report email must never roll back the close.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueDayReport(ctx, map[string]interface{}{
			"day_id":   day.ID.String(),
			"day_date": day.DayDate.Format("2006-01-02"),
		})
	}

	resp := dayToResponse(day)
	return &resp, nil
}

// GetStatus is the only unauthenticated day endpoint; the frontend polls it
// to decide whether to render the POS surface or the "day closed" screen.
func (s *dayService) GetStatus(ctx context.Context) (*dto.DayStatusResponse, error) {
	day, err := s.repo.FindOpen(ctx)
	if err != nil {
		return &dto.DayStatusResponse{
			IsOpen:      false,
			CurrentDate: time.Now().Format("2006-01-02"),
			CanOperate:  false,
			Message:     "no open day; operations are blocked until a day is opened",
		}, nil
	}
	openedAt := day.OpenedAt.Format(time.RFC3339)
	return &dto.DayStatusResponse{
		IsOpen:      true,
		CurrentDate: day.DayDate.Format("2006-01-02"),
		OpenedAt:    &openedAt,
		CanOperate:  true,
		Message:     "day is open",
	}, nil
}

func (s *dayService) GetCurrentDay(ctx context.Context) (*dto.DayResponse, error) {
	day, err := s.repo.FindOpen(ctx)
	if err != nil {
		return nil, apierror.NotFound("day", "current")
	}
	resp := dayToResponse(day)
	return &resp, nil
}

// GetDayByID restricts floor staff to the day they are working: historical
// days are management's concern.
func (s *dayService) GetDayByID(ctx context.Context, id uuid.UUID, role authz.Role) (*dto.DayResponse, error) {
	day, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("day", id.String())
	}
	if (role == authz.RoleWaiter || role == authz.RoleKitchen) && !day.IsOpen {
		return nil, apierror.PermissionDenied("historical days are restricted to administrators")
	}
	resp := dayToResponse(day)
	return &resp, nil
}

func (s *dayService) GetSnapshots(ctx context.Context, dayID uuid.UUID) ([]dto.DaySnapshotResponse, error) {
	if _, err := s.repo.FindByID(ctx, dayID); err != nil {
		return nil, apierror.NotFound("day", dayID.String())
	}
	snaps, err := s.repo.Snapshots(ctx, dayID)
	if err != nil {
		return nil, apierror.Database()
	}
	resp := make([]dto.DaySnapshotResponse, 0, len(snaps))
	for _, snap := range snaps {
		resp = append(resp, dto.DaySnapshotResponse{
			ID:           snap.ID.String(),
			DayID:        snap.DayID.String(),
			SnapshotType: snap.SnapshotType,
			TakenAt:      snap.TakenAt.Format(time.RFC3339),
			Data:         json.RawMessage(snap.Data),
		})
	}
	return resp, nil
}

func (s *dayService) ListDays(ctx context.Context, limit, offset int) ([]dto.DayResponse, int64, error) {
	if limit <= 0 {
		limit = 30
	}
	days, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, apierror.Database()
	}
	resp := make([]dto.DayResponse, 0, len(days))
	for _, d := range days {
		resp = append(resp, dayToResponse(&d))
	}
	return resp, total, nil
}

func dayToResponse(d *model.Day) dto.DayResponse {
	resp := dto.DayResponse{
		ID:       d.ID.String(),
		DayDate:  d.DayDate.Format("2006-01-02"),
		IsOpen:   d.IsOpen,
		OpenedAt: d.OpenedAt.Format(time.RFC3339),
		OpenedBy: d.OpenedBy.String(),
	}
	if d.ClosedAt != nil {
		closedAt := d.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &closedAt
	}
	if d.ClosedBy != nil {
		closedBy := d.ClosedBy.String()
		resp.ClosedBy = &closedBy
	}
	return resp
}

package service

import (
	"context"
	"time"

	"github.com/Lazvegas61/MyCafe-sql/internal/apierror"
	"github.com/Lazvegas61/MyCafe-sql/internal/dto"
	"github.com/Lazvegas61/MyCafe-sql/internal/model"
	"github.com/Lazvegas61/MyCafe-sql/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceService interface {
	CreateInvoice(ctx context.Context, userID uuid.UUID, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error)
	ListOpenInvoices(ctx context.Context) ([]dto.InvoiceSummaryResponse, error)
	AddLine(ctx context.Context, userID, invoiceID uuid.UUID, req dto.AddLineRequest) (*dto.InvoiceResponse, error)
	RemoveLine(ctx context.Context, userID, lineID uuid.UUID) (*dto.InvoiceResponse, error)
	CloseInvoice(ctx context.Context, userID, invoiceID uuid.UUID) error
	CancelInvoice(ctx context.Context, userID, invoiceID uuid.UUID, reason string) error
	TableOpenInvoice(ctx context.Context, tableID uuid.UUID) (*dto.InvoiceResponse, error)
	GetTable(ctx context.Context, id uuid.UUID) (*dto.TableResponse, error)
	ListTables(ctx context.Context) ([]dto.TableResponse, error)
	ListAvailableTables(ctx context.Context) ([]dto.TableResponse, error)
	StartBilliard(ctx context.Context, userID uuid.UUID, req dto.StartBilliardRequest) (*dto.BilliardSessionResponse, error)
	EndBilliard(ctx context.Context, userID, sessionID uuid.UUID) (*dto.BilliardSessionResponse, error)
}

type invoiceService struct {
	repo      repository.InvoiceRepository
	tables    repository.TableRepository
	products  repository.ProductRepository
	billiards repository.BilliardRepository
	days      repository.DayRepository
	ledger    repository.LedgerRepository
}

func NewInvoiceService(
	repo repository.InvoiceRepository,
	tables repository.TableRepository,
	products repository.ProductRepository,
	billiards repository.BilliardRepository,
	days repository.DayRepository,
	ledger repository.LedgerRepository,
) InvoiceService {
	return &invoiceService{
		repo:      repo,
		tables:    tables,
		products:  products,
		billiards: billiards,
		days:      days,
		ledger:    ledger,
	}
}

// requireOpenDay gates every mutating operation on the single open day.
func requireOpenDay(ctx context.Context, days repository.DayRepository, operation string) (*model.Day, error) {
	day, err := days.FindOpen(ctx)
	if err != nil {
		return nil, apierror.ClosedDay(operation)
	}
	return day, nil
}

func (s *invoiceService) CreateInvoice(ctx context.Context, userID uuid.UUID, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if _, err := requireOpenDay(ctx, s.days, "create invoice"); err != nil {
		return nil, err
	}

	tableID, err := uuid.Parse(req.TableID)
	if err != nil {
		return nil, apierror.Validation("table_id is not a valid uuid")
	}
	table, err := s.tables.FindByID(ctx, tableID)
	if err != nil {
		return nil, apierror.NotFound("table", req.TableID)
	}
	if !table.IsActive {
		return nil, apierror.BusinessRule("table is inactive")
	}
	if table.Occupied() {
		return nil, apierror.BusinessRule("table already has an open invoice")
	}

	inv := &model.Invoice{
		TableID:  tableID,
		Status:   model.InvoiceOpen,
		OpenedAt: time.Now(),
		OpenedBy: userID,
	}
	if req.CustomerID != nil {
		cid, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, apierror.Validation("customer_id is not a valid uuid")
		}
		inv.CustomerID = &cid
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, inv); err != nil {
			return err
		}
		return s.tables.BindInvoice(ctx, tx, tableID, inv.ID)
	})
	if txErr != nil {
		return nil, apierror.Database()
	}

	return s.invoiceToResponse(ctx, inv, table)
}

func (s *invoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("invoice", id.String())
	}
	return s.invoiceToResponse(ctx, inv, nil)
}

func (s *invoiceService) ListOpenInvoices(ctx context.Context) ([]dto.InvoiceSummaryResponse, error) {
	invs, err := s.repo.ListOpen(ctx)
	if err != nil {
		return nil, apierror.Database()
	}

	tables, err := s.tables.List(ctx)
	if err != nil {
		return nil, apierror.Database()
	}
	numbers := make(map[uuid.UUID]int, len(tables))
	for _, t := range tables {
		numbers[t.ID] = t.TableNumber
	}

	resp := make([]dto.InvoiceSummaryResponse, 0, len(invs))
	for _, inv := range invs {
		lineCount := 0
		for _, l := range inv.Lines {
			if !l.Removed {
				lineCount++
			}
		}
		resp = append(resp, dto.InvoiceSummaryResponse{
			ID:          inv.ID.String(),
			TableNumber: numbers[inv.TableID],
			Status:      inv.Status,
			OpenedAt:    inv.OpenedAt.Format(time.RFC3339),
			TotalAmount: inv.Total(),
			LineCount:   lineCount,
		})
	}
	return resp, nil
}

func (s *invoiceService) AddLine(ctx context.Context, userID, invoiceID uuid.UUID, req dto.AddLineRequest) (*dto.InvoiceResponse, error) {
	if _, err := requireOpenDay(ctx, s.days, "add invoice line"); err != nil {
		return nil, err
	}

	inv, err := s.repo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, apierror.NotFound("invoice", invoiceID.String())
	}
	if inv.Status != model.InvoiceOpen {
		return nil, apierror.BusinessRule("lines can only be added to an open invoice")
	}

	line := &model.InvoiceLine{
		InvoiceID: invoiceID,
		LineType:  req.LineType,
		Quantity:  req.Quantity,
		Note:      req.Note,
		CreatedAt: time.Now(),
		CreatedBy: userID,
	}

	switch req.LineType {
	case model.LineNormal:
		if req.ProductID == nil {
			return nil, apierror.Validation("product_id is required for NORMAL lines")
		}
		pid, err := uuid.Parse(*req.ProductID)
		if err != nil {
			return nil, apierror.Validation("product_id is not a valid uuid")
		}
		product, err := s.products.FindByID(ctx, pid)
		if err != nil {
			return nil, apierror.NotFound("product", *req.ProductID)
		}
		if !product.IsActive {
			return nil, apierror.BusinessRule("product is inactive and cannot be sold")
		}
		// Price and name are frozen on the line so later catalog edits
		// never alter an invoice retroactively.
		line.ProductID = &pid
		line.ProductNameSnapshot = product.Name
		line.UnitPriceSnapshot = product.Price

	case model.LineSpecialOrder:
		if req.UnitPrice == nil {
			return nil, apierror.Validation("unit_price is required for SPECIAL_ORDER lines")
		}
		if req.Note == nil || *req.Note == "" {
			return nil, apierror.Validation("note describing the order is required for SPECIAL_ORDER lines")
		}
		line.ProductNameSnapshot = *req.Note
		line.UnitPriceSnapshot = *req.UnitPrice

	default:
		return nil, apierror.Validation("unknown line_type")
	}

	line.LineTotal = line.UnitPriceSnapshot.Mul(line.Quantity).Round(2)

	if err := s.repo.AddLine(ctx, nil, line); err != nil {
		return nil, apierror.Database()
	}

	inv, err = s.repo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, apierror.Database()
	}
	return s.invoiceToResponse(ctx, inv, nil)
}

func (s *invoiceService) RemoveLine(ctx context.Context, userID, lineID uuid.UUID) (*dto.InvoiceResponse, error) {
	if _, err := requireOpenDay(ctx, s.days, "remove invoice line"); err != nil {
		return nil, err
	}

	line, err := s.repo.FindLine(ctx, lineID)
	if err != nil {
		return nil, apierror.NotFound("invoice line", lineID.String())
	}
	invoiceID := line.InvoiceID

	inv, err := s.repo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, apierror.NotFound("invoice", invoiceID.String())
	}
	if inv.Status != model.InvoiceOpen {
		return nil, apierror.BusinessRule("lines can only be removed from an open invoice")
	}

	if line.Removed {
		return nil, apierror.BusinessRule("line is already removed")
	}
	if line.LineType == model.LineBilliard {
		return nil, apierror.BusinessRule("billiard lines are settled automatically and cannot be removed")
	}

	if err := s.repo.RemoveLine(ctx, lineID, userID); err != nil {
		return nil, apierror.Database()
	}

	inv, err = s.repo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, apierror.Database()
	}
	return s.invoiceToResponse(ctx, inv, nil)
}

// CloseInvoice is the administrative override that writes off an invoice
// without a payment. A running billiard clock is stopped without charge and
// no ledger row is produced, so the write-off is visible only on the invoice.
func (s *invoiceService) CloseInvoice(ctx context.Context, userID, invoiceID uuid.UUID) error {
	if _, err := requireOpenDay(ctx, s.days, "close invoice"); err != nil {
		return err
	}

	inv, err := s.repo.FindByID(ctx, invoiceID)
	if err != nil {
		return apierror.NotFound("invoice", invoiceID.String())
	}
	if inv.Status != model.InvoiceOpen {
		return apierror.BusinessRule("only an open invoice can be closed")
	}

	now := time.Now()
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if session, err := s.billiards.ActiveByInvoice(ctx, invoiceID); err == nil && session.Active() {
			minutes := billiardMinutes(session.StartedAt, now)
			zero := decimal.Zero
			session.EndedAt = &now
			session.DurationMinutes = &minutes
			session.Amount = &zero
			session.EndedBy = &userID
			if err := s.billiards.End(ctx, tx, session); err != nil {
				return err
			}
		}
		if err := s.repo.UpdateStatus(ctx, tx, invoiceID, model.InvoiceClosed, &userID, &now); err != nil {
			return err
		}
		return s.tables.Release(ctx, tx, inv.TableID)
	})
	if txErr != nil {
		return apierror.Database()
	}
	return nil
}

func (s *invoiceService) CancelInvoice(ctx context.Context, userID, invoiceID uuid.UUID, reason string) error {
	if _, err := requireOpenDay(ctx, s.days, "cancel invoice"); err != nil {
		return err
	}

	inv, err := s.repo.FindByID(ctx, invoiceID)
	if err != nil {
		return apierror.NotFound("invoice", invoiceID.String())
	}
	if inv.Status != model.InvoiceOpen {
		return apierror.BusinessRule("only an open invoice can be cancelled")
	}

	// Any ledger row attached to the invoice (payment, sale or debt) blocks
	// cancellation; the money side has to be unwound by refund first.
	attached, err := s.ledger.CountByInvoice(ctx, invoiceID)
	if err != nil {
		return apierror.Database()
	}
	if attached > 0 {
		return apierror.BusinessRule("invoice has recorded transactions; refund them instead of cancelling")
	}

	now := time.Now()
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// A running billiard clock is stopped without charge.
		if session, err := s.billiards.ActiveByInvoice(ctx, invoiceID); err == nil {
			minutes := billiardMinutes(session.StartedAt, now)
			zero := decimal.Zero
			session.EndedAt = &now
			session.DurationMinutes = &minutes
			session.Amount = &zero
			session.EndedBy = &userID
			if err := s.billiards.End(ctx, tx, session); err != nil {
				return err
			}
		}
		if err := s.repo.UpdateStatus(ctx, tx, invoiceID, model.InvoiceCancelled, &userID, &now); err != nil {
			return err
		}
		return s.tables.Release(ctx, tx, inv.TableID)
	})
	if txErr != nil {
		return apierror.Database()
	}
	return nil
}

func (s *invoiceService) TableOpenInvoice(ctx context.Context, tableID uuid.UUID) (*dto.InvoiceResponse, error) {
	table, err := s.tables.FindByID(ctx, tableID)
	if err != nil {
		return nil, apierror.NotFound("table", tableID.String())
	}
	inv, err := s.repo.FindOpenByTable(ctx, tableID)
	if err != nil {
		return nil, apierror.NotFound("open invoice for table", tableID.String())
	}
	return s.invoiceToResponse(ctx, inv, table)
}

func (s *invoiceService) GetTable(ctx context.Context, id uuid.UUID) (*dto.TableResponse, error) {
	table, err := s.tables.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("table", id.String())
	}
	resp := tablesToResponse([]model.Table{*table})
	return &resp[0], nil
}

func (s *invoiceService) ListTables(ctx context.Context) ([]dto.TableResponse, error) {
	tables, err := s.tables.List(ctx)
	if err != nil {
		return nil, apierror.Database()
	}
	return tablesToResponse(tables), nil
}

func (s *invoiceService) ListAvailableTables(ctx context.Context) ([]dto.TableResponse, error) {
	tables, err := s.tables.ListAvailable(ctx)
	if err != nil {
		return nil, apierror.Database()
	}
	return tablesToResponse(tables), nil
}

// ── Billiard sessions ─────────────────────────────────────────────────────────

func (s *invoiceService) StartBilliard(ctx context.Context, userID uuid.UUID, req dto.StartBilliardRequest) (*dto.BilliardSessionResponse, error) {
	if _, err := requireOpenDay(ctx, s.days, "start billiard session"); err != nil {
		return nil, err
	}

	tableID, err := uuid.Parse(req.TableID)
	if err != nil {
		return nil, apierror.Validation("table_id is not a valid uuid")
	}
	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		return nil, apierror.Validation("invoice_id is not a valid uuid")
	}

	table, err := s.tables.FindByID(ctx, tableID)
	if err != nil {
		return nil, apierror.NotFound("table", req.TableID)
	}
	if table.Kind != model.TableBilliard || table.HourlyRate == nil {
		return nil, apierror.BusinessRule("table is not a billiard table")
	}

	inv, err := s.repo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, apierror.NotFound("invoice", req.InvoiceID)
	}
	if inv.Status != model.InvoiceOpen || inv.TableID != tableID {
		return nil, apierror.BusinessRule("billiard session requires an open invoice on the same table")
	}

	if _, err := s.billiards.ActiveByTable(ctx, tableID); err == nil {
		return nil, apierror.BusinessRule("table already has a running billiard session")
	}

	session := &model.BilliardSession{
		TableID:   tableID,
		InvoiceID: invoiceID,
		StartedAt: time.Now(),
		StartedBy: userID,
	}
	if err := s.billiards.Create(ctx, session); err != nil {
		return nil, apierror.Database()
	}

	resp := billiardToResponse(session)
	return &resp, nil
}

func (s *invoiceService) EndBilliard(ctx context.Context, userID, sessionID uuid.UUID) (*dto.BilliardSessionResponse, error) {
	if _, err := requireOpenDay(ctx, s.days, "end billiard session"); err != nil {
		return nil, err
	}

	session, err := s.billiards.FindByID(ctx, sessionID)
	if err != nil {
		return nil, apierror.NotFound("billiard session", sessionID.String())
	}
	if !session.Active() {
		return nil, apierror.BusinessRule("billiard session is already ended")
	}

	table, err := s.tables.FindByID(ctx, session.TableID)
	if err != nil || table.HourlyRate == nil {
		return nil, apierror.Database()
	}

	now := time.Now()
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return settleBilliardSession(ctx, tx, s.billiards, s.repo, session, *table.HourlyRate, userID, now)
	})
	if txErr != nil {
		return nil, apierror.Database()
	}

	resp := billiardToResponse(session)
	return &resp, nil
}

// settleBilliardSession stops the clock, prices the elapsed time and appends
// the charge to the invoice as a BILLIARD line, all inside the caller's tx.
func settleBilliardSession(
	ctx context.Context,
	tx *gorm.DB,
	billiards repository.BilliardRepository,
	invoices repository.InvoiceRepository,
	session *model.BilliardSession,
	hourlyRate decimal.Decimal,
	endedBy uuid.UUID,
	now time.Time,
) error {
	minutes := billiardMinutes(session.StartedAt, now)
	amount := hourlyRate.Mul(decimal.NewFromInt(int64(minutes))).Div(decimal.NewFromInt(60)).Round(2)

	session.EndedAt = &now
	session.DurationMinutes = &minutes
	session.Amount = &amount
	session.EndedBy = &endedBy
	if err := billiards.End(ctx, tx, session); err != nil {
		return err
	}

	line := &model.InvoiceLine{
		InvoiceID:           session.InvoiceID,
		LineType:            model.LineBilliard,
		ProductNameSnapshot: "Billiard time",
		Quantity:            decimal.NewFromInt(int64(minutes)),
		UnitPriceSnapshot:   hourlyRate.Div(decimal.NewFromInt(60)).Round(4),
		LineTotal:           amount,
		CreatedAt:           now,
		CreatedBy:           endedBy,
	}
	return invoices.AddLine(ctx, tx, line)
}

// billiardMinutes rounds elapsed time up to whole minutes, never below one.
func billiardMinutes(start, end time.Time) int {
	elapsed := end.Sub(start)
	minutes := int((elapsed + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// ── Response mapping ──────────────────────────────────────────────────────────

func (s *invoiceService) invoiceToResponse(ctx context.Context, inv *model.Invoice, table *model.Table) (*dto.InvoiceResponse, error) {
	if table == nil {
		t, err := s.tables.FindByID(ctx, inv.TableID)
		if err != nil {
			return nil, apierror.Database()
		}
		table = t
	}

	lines := make([]dto.InvoiceLineResponse, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		if l.Removed {
			continue
		}
		lr := dto.InvoiceLineResponse{
			ID:                  l.ID.String(),
			InvoiceID:           l.InvoiceID.String(),
			LineType:            l.LineType,
			ProductNameSnapshot: l.ProductNameSnapshot,
			Quantity:            l.Quantity,
			UnitPriceSnapshot:   l.UnitPriceSnapshot,
			LineTotal:           l.LineTotal,
			Note:                l.Note,
			CreatedAt:           l.CreatedAt.Format(time.RFC3339),
		}
		if l.ProductID != nil {
			pid := l.ProductID.String()
			lr.ProductID = &pid
		}
		lines = append(lines, lr)
	}

	resp := &dto.InvoiceResponse{
		ID:          inv.ID.String(),
		TableID:     inv.TableID.String(),
		TableNumber: table.TableNumber,
		Status:      inv.Status,
		OpenedAt:    inv.OpenedAt.Format(time.RFC3339),
		TotalAmount: inv.Total(),
		Lines:       lines,
	}
	if inv.CustomerID != nil {
		cid := inv.CustomerID.String()
		resp.CustomerID = &cid
	}
	if inv.ClosedAt != nil {
		closedAt := inv.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &closedAt
	}
	return resp, nil
}

func tablesToResponse(tables []model.Table) []dto.TableResponse {
	resp := make([]dto.TableResponse, 0, len(tables))
	for _, t := range tables {
		tr := dto.TableResponse{
			ID:          t.ID.String(),
			TableNumber: t.TableNumber,
			TableName:   t.Name,
			Kind:        t.Kind,
			HourlyRate:  t.HourlyRate,
			IsActive:    t.IsActive,
			IsOccupied:  t.Occupied(),
		}
		if t.CurrentInvoiceID != nil {
			cid := t.CurrentInvoiceID.String()
			tr.CurrentInvoiceID = &cid
		}
		resp = append(resp, tr)
	}
	return resp
}

func billiardToResponse(s *model.BilliardSession) dto.BilliardSessionResponse {
	resp := dto.BilliardSessionResponse{
		ID:        s.ID.String(),
		TableID:   s.TableID.String(),
		InvoiceID: s.InvoiceID.String(),
		StartedAt: s.StartedAt.Format(time.RFC3339),
		IsActive:  s.Active(),
	}
	if s.EndedAt != nil {
		endedAt := s.EndedAt.Format(time.RFC3339)
		resp.EndedAt = &endedAt
	}
	resp.DurationMinutes = s.DurationMinutes
	resp.Amount = s.Amount
	return resp
}

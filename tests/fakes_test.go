package tests

import (
	"context"
	"strings"
	"time"

	"github.com/Lazvegas61/MyCafe-sql/internal/dto"
	"github.com/Lazvegas61/MyCafe-sql/internal/model"
	"github.com/Lazvegas61/MyCafe-sql/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory fakes for every repository. Services run transactions through
// runTx, which calls the closure with a nil *gorm.DB when DB() returns nil,
// so these fakes simply ignore the tx argument.

// ── DayRepository ─────────────────────────────────────────────────────────────

type fakeDayRepo struct {
	days      map[uuid.UUID]*model.Day
	snapshots []model.DaySnapshot
}

func newFakeDayRepo() *fakeDayRepo {
	return &fakeDayRepo{days: make(map[uuid.UUID]*model.Day)}
}

func (r *fakeDayRepo) DB() *gorm.DB { return nil }

func (r *fakeDayRepo) Create(_ context.Context, _ *gorm.DB, d *model.Day) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.days[d.ID] = d
	return nil
}

func (r *fakeDayRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Day, error) {
	d, ok := r.days[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func (r *fakeDayRepo) FindOpen(_ context.Context) (*model.Day, error) {
	for _, d := range r.days {
		if d.IsOpen {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeDayRepo) FindByDate(_ context.Context, date time.Time) (*model.Day, error) {
	for _, d := range r.days {
		if d.DayDate.Format("2006-01-02") == date.Format("2006-01-02") {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeDayRepo) Close(_ context.Context, _ *gorm.DB, d *model.Day) error {
	stored, ok := r.days[d.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.IsOpen = false
	stored.ClosedAt = d.ClosedAt
	stored.ClosedBy = d.ClosedBy
	return nil
}

func (r *fakeDayRepo) CreateSnapshot(_ context.Context, _ *gorm.DB, s *model.DaySnapshot) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.snapshots = append(r.snapshots, *s)
	return nil
}

func (r *fakeDayRepo) Snapshots(_ context.Context, dayID uuid.UUID) ([]model.DaySnapshot, error) {
	var out []model.DaySnapshot
	for _, s := range r.snapshots {
		if s.DayID == dayID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeDayRepo) LatestClosingSnapshot(_ context.Context) (*model.DaySnapshot, error) {
	var latest *model.DaySnapshot
	for i := range r.snapshots {
		s := &r.snapshots[i]
		if s.SnapshotType != model.SnapshotClosing {
			continue
		}
		if latest == nil || s.TakenAt.After(latest.TakenAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (r *fakeDayRepo) List(_ context.Context, limit, offset int) ([]model.Day, int64, error) {
	all := make([]model.Day, 0, len(r.days))
	for _, d := range r.days {
		all = append(all, *d)
	}
	return all, int64(len(all)), nil
}

var _ repository.DayRepository = (*fakeDayRepo)(nil)

// ── InvoiceRepository ─────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	invoices map[uuid.UUID]*model.Invoice
	lines    map[uuid.UUID]*model.InvoiceLine
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[uuid.UUID]*model.Invoice),
		lines:    make(map[uuid.UUID]*model.InvoiceLine),
	}
}

func (r *fakeInvoiceRepo) DB() *gorm.DB { return nil }

func (r *fakeInvoiceRepo) Create(_ context.Context, _ *gorm.DB, inv *model.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.invoices[inv.ID] = inv
	return nil
}

func (r *fakeInvoiceRepo) withLines(inv *model.Invoice) *model.Invoice {
	cp := *inv
	cp.Lines = nil
	for _, l := range r.lines {
		if l.InvoiceID == inv.ID {
			cp.Lines = append(cp.Lines, *l)
		}
	}
	return &cp
}

func (r *fakeInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.withLines(inv), nil
}

func (r *fakeInvoiceRepo) FindOpenByTable(_ context.Context, tableID uuid.UUID) (*model.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.TableID == tableID && inv.Status == model.InvoiceOpen {
			return r.withLines(inv), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeInvoiceRepo) UpdateStatus(_ context.Context, _ *gorm.DB, id uuid.UUID, status string, closedBy *uuid.UUID, closedAt *time.Time) error {
	inv, ok := r.invoices[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	inv.Status = status
	inv.ClosedBy = closedBy
	inv.ClosedAt = closedAt
	return nil
}

func (r *fakeInvoiceRepo) AddLine(_ context.Context, _ *gorm.DB, line *model.InvoiceLine) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	r.lines[line.ID] = line
	return nil
}

func (r *fakeInvoiceRepo) FindLine(_ context.Context, lineID uuid.UUID) (*model.InvoiceLine, error) {
	l, ok := r.lines[lineID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (r *fakeInvoiceRepo) RemoveLine(_ context.Context, lineID, removedBy uuid.UUID) error {
	l, ok := r.lines[lineID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	l.Removed = true
	l.RemovedBy = &removedBy
	return nil
}

func (r *fakeInvoiceRepo) ListOpen(_ context.Context) ([]model.Invoice, error) {
	var out []model.Invoice
	for _, inv := range r.invoices {
		if inv.Status == model.InvoiceOpen {
			out = append(out, *r.withLines(inv))
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) CountOpen(_ context.Context) (int64, error) {
	var n int64
	for _, inv := range r.invoices {
		if inv.Status == model.InvoiceOpen {
			n++
		}
	}
	return n, nil
}

var _ repository.InvoiceRepository = (*fakeInvoiceRepo)(nil)

// ── TableRepository ───────────────────────────────────────────────────────────

type fakeTableRepo struct {
	tables map[uuid.UUID]*model.Table
}

func newFakeTableRepo() *fakeTableRepo {
	return &fakeTableRepo{tables: make(map[uuid.UUID]*model.Table)}
}

func (r *fakeTableRepo) add(t *model.Table) *model.Table {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tables[t.ID] = t
	return t
}

func (r *fakeTableRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Table, error) {
	t, ok := r.tables[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *fakeTableRepo) List(_ context.Context) ([]model.Table, error) {
	var out []model.Table
	for _, t := range r.tables {
		if t.IsActive {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTableRepo) ListAvailable(_ context.Context) ([]model.Table, error) {
	var out []model.Table
	for _, t := range r.tables {
		if t.IsActive && t.CurrentInvoiceID == nil {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTableRepo) BindInvoice(_ context.Context, _ *gorm.DB, tableID, invoiceID uuid.UUID) error {
	t, ok := r.tables[tableID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.CurrentInvoiceID = &invoiceID
	return nil
}

func (r *fakeTableRepo) Release(_ context.Context, _ *gorm.DB, tableID uuid.UUID) error {
	t, ok := r.tables[tableID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.CurrentInvoiceID = nil
	return nil
}

var _ repository.TableRepository = (*fakeTableRepo)(nil)

// ── ProductRepository ─────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *fakeProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) List(_ context.Context, category string) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.IsActive && (category == "" || p.Category == category) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) DecrementStock(_ context.Context, _ *gorm.DB, productID uuid.UUID, qty decimal.Decimal) error {
	p, ok := r.products[productID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = p.Stock.Sub(qty)
	return nil
}

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

// ── CustomerRepository ────────────────────────────────────────────────────────

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) Search(_ context.Context, query string, limit int) ([]model.Customer, error) {
	var out []model.Customer
	for _, c := range r.customers {
		if !c.IsActive {
			continue
		}
		if query == "" || strings.Contains(strings.ToLower(c.FullName), strings.ToLower(query)) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) UpdateTotalDebt(_ context.Context, _ *gorm.DB, customerID uuid.UUID, newTotal decimal.Decimal) error {
	c, ok := r.customers[customerID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.TotalDebt = newTotal
	return nil
}

func (r *fakeCustomerRepo) Debtors(_ context.Context) ([]model.Customer, error) {
	var out []model.Customer
	for _, c := range r.customers {
		if c.TotalDebt.GreaterThan(decimal.Zero) {
			out = append(out, *c)
		}
	}
	return out, nil
}

var _ repository.CustomerRepository = (*fakeCustomerRepo)(nil)

// ── LedgerRepository ──────────────────────────────────────────────────────────

type fakeLedgerRepo struct {
	rows []model.FinanceTransaction
}

func newFakeLedgerRepo() *fakeLedgerRepo { return &fakeLedgerRepo{} }

func (r *fakeLedgerRepo) DB() *gorm.DB { return nil }

func (r *fakeLedgerRepo) Append(_ context.Context, _ *gorm.DB, ft *model.FinanceTransaction) error {
	if ft.ID == uuid.Nil {
		ft.ID = uuid.New()
	}
	r.rows = append(r.rows, *ft)
	return nil
}

func (r *fakeLedgerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.FinanceTransaction, error) {
	for i := range r.rows {
		if r.rows[i].ID == id {
			return &r.rows[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeLedgerRepo) SumInvoicePayments(_ context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, ft := range r.rows {
		if ft.InvoiceID != nil && *ft.InvoiceID == invoiceID &&
			(ft.TransactionType == model.TxPayment || ft.TransactionType == model.TxSales) {
			sum = sum.Add(ft.Amount)
		}
	}
	return sum, nil
}

func (r *fakeLedgerRepo) CountByInvoice(_ context.Context, invoiceID uuid.UUID) (int64, error) {
	var n int64
	for _, ft := range r.rows {
		if ft.InvoiceID != nil && *ft.InvoiceID == invoiceID {
			n++
		}
	}
	return n, nil
}

func (r *fakeLedgerRepo) SumRefundsFor(_ context.Context, originalID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, ft := range r.rows {
		if ft.ReferenceID != nil && *ft.ReferenceID == originalID && ft.TransactionType == model.TxRefund {
			sum = sum.Add(ft.Amount)
		}
	}
	return sum, nil
}

func (r *fakeLedgerRepo) CustomerBalance(_ context.Context, _ *gorm.DB, customerID uuid.UUID) (decimal.Decimal, error) {
	balance := decimal.Zero
	for _, ft := range r.rows {
		if ft.CustomerID == nil || *ft.CustomerID != customerID {
			continue
		}
		switch ft.TransactionType {
		case model.TxDebt:
			balance = balance.Add(ft.Amount)
		case model.TxDebtPayment:
			balance = balance.Sub(ft.Amount)
		case model.TxCorrection:
			balance = balance.Add(ft.Amount)
		}
	}
	return balance, nil
}

func (r *fakeLedgerRepo) CustomerDebts(_ context.Context, customerID uuid.UUID) ([]model.FinanceTransaction, error) {
	var out []model.FinanceTransaction
	for _, ft := range r.rows {
		if ft.CustomerID == nil || *ft.CustomerID != customerID {
			continue
		}
		switch ft.TransactionType {
		case model.TxDebt, model.TxDebtPayment, model.TxCorrection:
			out = append(out, ft)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) List(_ context.Context, filter dto.FinanceTransactionFilter) ([]model.FinanceTransaction, int64, error) {
	var out []model.FinanceTransaction
	for _, ft := range r.rows {
		if filter.DayID != "" && ft.DayID.String() != filter.DayID {
			continue
		}
		if filter.TransactionType != "" && ft.TransactionType != filter.TransactionType {
			continue
		}
		out = append(out, ft)
	}
	return out, int64(len(out)), nil
}

func (r *fakeLedgerRepo) ListByDay(_ context.Context, dayID uuid.UUID) ([]model.FinanceTransaction, error) {
	var out []model.FinanceTransaction
	for _, ft := range r.rows {
		if ft.DayID == dayID {
			out = append(out, ft)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) ListByInvoice(_ context.Context, invoiceID uuid.UUID) ([]model.FinanceTransaction, error) {
	var out []model.FinanceTransaction
	for _, ft := range r.rows {
		if ft.InvoiceID != nil && *ft.InvoiceID == invoiceID {
			out = append(out, ft)
		}
	}
	return out, nil
}

var _ repository.LedgerRepository = (*fakeLedgerRepo)(nil)

// ── BilliardRepository ────────────────────────────────────────────────────────

type fakeBilliardRepo struct {
	sessions map[uuid.UUID]*model.BilliardSession
}

func newFakeBilliardRepo() *fakeBilliardRepo {
	return &fakeBilliardRepo{sessions: make(map[uuid.UUID]*model.BilliardSession)}
}

func (r *fakeBilliardRepo) Create(_ context.Context, s *model.BilliardSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeBilliardRepo) FindByID(_ context.Context, id uuid.UUID) (*model.BilliardSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeBilliardRepo) ActiveByInvoice(_ context.Context, invoiceID uuid.UUID) (*model.BilliardSession, error) {
	for _, s := range r.sessions {
		if s.InvoiceID == invoiceID && s.EndedAt == nil {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBilliardRepo) ActiveByTable(_ context.Context, tableID uuid.UUID) (*model.BilliardSession, error) {
	for _, s := range r.sessions {
		if s.TableID == tableID && s.EndedAt == nil {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBilliardRepo) End(_ context.Context, _ *gorm.DB, s *model.BilliardSession) error {
	stored, ok := r.sessions[s.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.EndedAt = s.EndedAt
	stored.DurationMinutes = s.DurationMinutes
	stored.Amount = s.Amount
	stored.EndedBy = s.EndedBy
	return nil
}

var _ repository.BilliardRepository = (*fakeBilliardRepo)(nil)

// ── UserRepository ────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

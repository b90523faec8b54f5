package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Lazvegas61/MyCafe-sql/internal/infra"
	"github.com/Lazvegas61/MyCafe-sql/internal/model"
	"github.com/Lazvegas61/MyCafe-sql/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ReportWorker renders the closing report PDF for a just-closed day and,
// when a report address is configured, emails it. SMTP sends go through a
// circuit breaker so a dead relay does not burn every retry.
type ReportWorker struct {
	days        repository.DayRepository
	pdf         *infra.PDFGenerator
	mailer      *infra.Mailer
	breaker     *infra.CircuitBreaker
	reportEmail string
}

func NewReportWorker(
	days repository.DayRepository,
	pdf *infra.PDFGenerator,
	mailer *infra.Mailer,
	breaker *infra.CircuitBreaker,
	reportEmail string,
) *ReportWorker {
	return &ReportWorker{
		days:        days,
		pdf:         pdf,
		mailer:      mailer,
		breaker:     breaker,
		reportEmail: reportEmail,
	}
}

type dayReportJob struct {
	DayID   string `json:"day_id"`
	DayDate string `json:"day_date"`
}

// closingData mirrors the JSON stored in the CLOSING snapshot.
type closingData struct {
	DayDate          string          `json:"day_date"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	CashPayments     decimal.Decimal `json:"cash_payments"`
	CardPayments     decimal.Decimal `json:"card_payments"`
	DebtCreated      decimal.Decimal `json:"debt_created"`
	DebtPaid         decimal.Decimal `json:"debt_paid"`
	Refunds          decimal.Decimal `json:"refunds"`
	TransactionCount int             `json:"transaction_count"`
}

func (w *ReportWorker) Handle(ctx context.Context, payload json.RawMessage) error {
	var job dayReportJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("day report: decode payload: %w", err)
	}
	dayID, err := uuid.Parse(job.DayID)
	if err != nil {
		return fmt.Errorf("day report: bad day id %q: %w", job.DayID, err)
	}

	day, err := w.days.FindByID(ctx, dayID)
	if err != nil {
		return fmt.Errorf("day report: load day: %w", err)
	}
	snap, err := w.closingSnapshot(ctx, dayID)
	if err != nil {
		return err
	}

	var data closingData
	if err := json.Unmarshal(snap.Data, &data); err != nil {
		return fmt.Errorf("day report: decode snapshot: %w", err)
	}

	path, err := w.pdf.DayReport(day, infra.DayReportData{
		DayDate:          data.DayDate,
		TotalSales:       data.TotalSales,
		CashPayments:     data.CashPayments,
		CardPayments:     data.CardPayments,
		DebtCreated:      data.DebtCreated,
		DebtPaid:         data.DebtPaid,
		Refunds:          data.Refunds,
		TransactionCount: data.TransactionCount,
	})
	if err != nil {
		return err
	}
	log.Info().Str("day_id", job.DayID).Str("path", path).Msg("closing report rendered")

	if w.reportEmail == "" || w.mailer == nil {
		return nil
	}
	subject := "Day closing report " + data.DayDate
	body := fmt.Sprintf(
		"Operating day %s closed.\n\nTotal sales: %s\nCash: %s\nCard: %s\nDebt created: %s\nDebt collected: %s\nRefunds: %s\nTransactions: %d\n",
		data.DayDate, data.TotalSales.StringFixed(2), data.CashPayments.StringFixed(2),
		data.CardPayments.StringFixed(2), data.DebtCreated.StringFixed(2),
		data.DebtPaid.StringFixed(2), data.Refunds.StringFixed(2), data.TransactionCount,
	)
	sendErr := w.breaker.Execute(func() error {
		return w.mailer.SendReport(w.reportEmail, subject, body, path)
	})
	if sendErr != nil {
		return fmt.Errorf("day report: send email: %w", sendErr)
	}
	log.Info().Str("day_id", job.DayID).Str("to", w.reportEmail).Msg("closing report emailed")
	return nil
}

func (w *ReportWorker) closingSnapshot(ctx context.Context, dayID uuid.UUID) (*model.DaySnapshot, error) {
	snaps, err := w.days.Snapshots(ctx, dayID)
	if err != nil {
		return nil, fmt.Errorf("day report: load snapshots: %w", err)
	}
	for i := len(snaps) - 1; i >= 0; i-- {
		if snaps[i].SnapshotType == model.SnapshotClosing {
			return &snaps[i], nil
		}
	}
	return nil, fmt.Errorf("day report: day %s has no closing snapshot", dayID)
}

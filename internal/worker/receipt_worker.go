package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Lazvegas61/MyCafe-sql/internal/infra"
	"github.com/Lazvegas61/MyCafe-sql/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptWorker renders the printable receipt for a settled invoice.
type ReceiptWorker struct {
	ledger   repository.LedgerRepository
	invoices repository.InvoiceRepository
	tables   repository.TableRepository
	pdf      *infra.PDFGenerator
}

func NewReceiptWorker(
	ledger repository.LedgerRepository,
	invoices repository.InvoiceRepository,
	tables repository.TableRepository,
	pdf *infra.PDFGenerator,
) *ReceiptWorker {
	return &ReceiptWorker{ledger: ledger, invoices: invoices, tables: tables, pdf: pdf}
}

type receiptJob struct {
	TransactionID string `json:"transaction_id"`
	InvoiceID     string `json:"invoice_id"`
}

func (w *ReceiptWorker) Handle(ctx context.Context, payload json.RawMessage) error {
	var job receiptJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("receipt: decode payload: %w", err)
	}
	txnID, err := uuid.Parse(job.TransactionID)
	if err != nil {
		return fmt.Errorf("receipt: bad transaction id %q: %w", job.TransactionID, err)
	}
	invoiceID, err := uuid.Parse(job.InvoiceID)
	if err != nil {
		return fmt.Errorf("receipt: bad invoice id %q: %w", job.InvoiceID, err)
	}

	txn, err := w.ledger.FindByID(ctx, txnID)
	if err != nil {
		return fmt.Errorf("receipt: load transaction: %w", err)
	}
	inv, err := w.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return fmt.Errorf("receipt: load invoice: %w", err)
	}
	table, err := w.tables.FindByID(ctx, inv.TableID)
	if err != nil {
		return fmt.Errorf("receipt: load table: %w", err)
	}

	path, err := w.pdf.Receipt(inv, table, txn)
	if err != nil {
		return err
	}
	log.Info().Str("transaction_id", job.TransactionID).Str("path", path).Msg("receipt rendered")
	return nil
}

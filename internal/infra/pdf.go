package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Lazvegas61/MyCafe-sql/internal/config"
	"github.com/Lazvegas61/MyCafe-sql/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// PDFGenerator renders customer receipts and day closing reports to disk.
type PDFGenerator struct {
	storagePath  string
	businessName string
}

func NewPDFGenerator(cfg *config.Config) (*PDFGenerator, error) {
	if err := os.MkdirAll(cfg.PDFStoragePath, 0o755); err != nil {
		return nil, fmt.Errorf("pdf: create storage dir: %w", err)
	}
	return &PDFGenerator{
		storagePath:  cfg.PDFStoragePath,
		businessName: cfg.BusinessName,
	}, nil
}

// Receipt renders a thermal-printer style ticket (A7 width) for a settled
// invoice and returns the file path.
func (g *PDFGenerator) Receipt(inv *model.Invoice, table *model.Table, txn *model.FinanceTransaction) (string, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "mm",
		Size:    fpdf.SizeType{Wd: 74, Ht: 210},
	})
	pdf.SetMargins(5, 5, 5)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(64, 6, g.businessName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(64, 4, txn.TransactionDate.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.CellFormat(64, 4, fmt.Sprintf("Table %d - %s", table.TableNumber, table.Name), "", 1, "C", false, 0, "")
	g.divider(pdf)

	pdf.SetFont("Helvetica", "", 7)
	for _, line := range inv.Lines {
		if line.Removed {
			continue
		}
		pdf.CellFormat(40, 4, truncate(line.ProductNameSnapshot, 28), "", 0, "L", false, 0, "")
		pdf.CellFormat(24, 4, line.Quantity.String()+" x "+line.UnitPriceSnapshot.StringFixed(2), "", 1, "R", false, 0, "")
		pdf.CellFormat(40, 4, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(24, 4, line.LineTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}
	g.divider(pdf)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(32, 5, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(32, 5, inv.Total().StringFixed(2), "", 1, "R", false, 0, "")

	method := ""
	if txn.PaymentMethod != nil {
		method = *txn.PaymentMethod
	}
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(32, 4, "Paid ("+method+")", "", 0, "L", false, 0, "")
	pdf.CellFormat(32, 4, txn.Amount.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(3)
	pdf.CellFormat(64, 4, "Thank you for your visit", "", 1, "C", false, 0, "")

	path := filepath.Join(g.storagePath, fmt.Sprintf("receipt_%s.pdf", txn.ID))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("pdf: write receipt: %w", err)
	}
	return path, nil
}

// DayReportData is the summary rendered into the closing report.
type DayReportData struct {
	DayDate          string
	TotalSales       decimal.Decimal
	CashPayments     decimal.Decimal
	CardPayments     decimal.Decimal
	DebtCreated      decimal.Decimal
	DebtPaid         decimal.Decimal
	Refunds          decimal.Decimal
	TransactionCount int
}

// DayReport renders the closing summary for one operating day and returns the
// file path.
func (g *PDFGenerator) DayReport(day *model.Day, data DayReportData) (string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(170, 10, g.businessName+" - Day Closing Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(170, 6, "Operating day: "+data.DayDate, "", 1, "C", false, 0, "")
	if day.ClosedAt != nil {
		pdf.CellFormat(170, 6, "Closed at: "+day.ClosedAt.Format(time.RFC3339), "", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	rows := []struct {
		label string
		value string
	}{
		{"Total sales", data.TotalSales.StringFixed(2)},
		{"Cash payments", data.CashPayments.StringFixed(2)},
		{"Card payments", data.CardPayments.StringFixed(2)},
		{"Debt created", data.DebtCreated.StringFixed(2)},
		{"Debt collected", data.DebtPaid.StringFixed(2)},
		{"Refunds", data.Refunds.StringFixed(2)},
		{"Transactions", fmt.Sprintf("%d", data.TransactionCount)},
	}
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		pdf.CellFormat(100, 8, row.label, "B", 0, "L", false, 0, "")
		pdf.CellFormat(70, 8, row.value, "B", 1, "R", false, 0, "")
	}

	path := filepath.Join(g.storagePath, fmt.Sprintf("day_report_%s.pdf", data.DayDate))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("pdf: write day report: %w", err)
	}
	return path, nil
}

func (g *PDFGenerator) divider(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(64, 3, "--------------------------------", "", 1, "C", false, 0, "")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "."
}

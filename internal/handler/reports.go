package handler

import (
	"github.com/Lazvegas61/MyCafe-sql/internal/dto"
	"github.com/Lazvegas61/MyCafe-sql/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReportHandler struct {
	svc       service.ReportService
	customers service.CustomerService
}

func NewReportHandler(svc service.ReportService, customers service.CustomerService) *ReportHandler {
	return &ReportHandler{svc: svc, customers: customers}
}

// DailySales godoc
// @Summary Sales totals per payment method for a day
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param day_id query string false "Day ID (defaults to the open day)"
// @Success 200 {object} dto.DailySalesReportResponse
// @Router /v1/reports/daily-sales [get]
func (h *ReportHandler) DailySales(c *gin.Context) {
	if raw := c.Query("day_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, errInvalidQueryUUID("day_id"))
			return
		}
		resp, err := h.svc.DailySales(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, resp)
		return
	}
	resp, err := h.svc.CurrentDaySales(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

func (h *ReportHandler) Debtors(c *gin.Context) {
	resp, err := h.customers.Debtors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

func (h *ReportHandler) DebtSummary(c *gin.Context) {
	resp, err := h.svc.DebtSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

func (h *ReportHandler) FinanceTransactions(c *gin.Context) {
	var filter dto.FinanceTransactionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, errInvalidQueryUUID("filter"))
		return
	}
	data, total, err := h.svc.Transactions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"data": data, "total": total})
}

func (h *ReportHandler) CashFlow(c *gin.Context) {
	id, err := uuid.Parse(c.Query("day_id"))
	if err != nil {
		respondError(c, errInvalidQueryUUID("day_id"))
		return
	}
	resp, err := h.svc.CashFlow(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

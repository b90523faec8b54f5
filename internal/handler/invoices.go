package handler

import (
	"net/http"

	"github.com/Lazvegas61/MyCafe-sql/internal/dto"
	"github.com/Lazvegas61/MyCafe-sql/internal/service"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct{ svc service.InvoiceService }

func NewInvoiceHandler(svc service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{svc: svc}
}

// Create godoc
// @Summary Open a new invoice on a free table
// @Tags invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateInvoiceRequest true "Table and optional customer"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 422 {object} apierror.Error
// @Router /v1/invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateInvoice(c.Request.Context(), userID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, resp)
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	id, okID := pathUUID(c, "id")
	if !okID {
		return
	}
	resp, err := h.svc.GetInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

func (h *InvoiceHandler) ListOpen(c *gin.Context) {
	resp, err := h.svc.ListOpenInvoices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

// AddLine godoc
// @Summary Append a product or special-order line to an open invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Param body body dto.AddLineRequest true "Line data"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 422 {object} apierror.Error
// @Router /v1/invoices/{id}/lines [post]
func (h *InvoiceHandler) AddLine(c *gin.Context) {
	id, okID := pathUUID(c, "id")
	if !okID {
		return
	}
	var req dto.AddLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddLine(c.Request.Context(), userID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, resp)
}

func (h *InvoiceHandler) RemoveLine(c *gin.Context) {
	lineID, okID := pathUUID(c, "id")
	if !okID {
		return
	}
	resp, err := h.svc.RemoveLine(c.Request.Context(), userID(c), lineID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

func (h *InvoiceHandler) Close(c *gin.Context) {
	id, okID := pathUUID(c, "id")
	if !okID {
		return
	}
	if err := h.svc.CloseInvoice(c.Request.Context(), userID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *InvoiceHandler) Cancel(c *gin.Context) {
	id, okID := pathUUID(c, "id")
	if !okID {
		return
	}
	var req dto.CancelInvoiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.CancelInvoice(c.Request.Context(), userID(c), id, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Tables ────────────────────────────────────────────────────────────────────

func (h *InvoiceHandler) ListTables(c *gin.Context) {
	resp, err := h.svc.ListTables(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

func (h *InvoiceHandler) ListAvailableTables(c *gin.Context) {
	resp, err := h.svc.ListAvailableTables(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

func (h *InvoiceHandler) GetTable(c *gin.Context) {
	id, okID := pathUUID(c, "id")
	if !okID {
		return
	}
	resp, err := h.svc.GetTable(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

func (h *InvoiceHandler) TableInvoice(c *gin.Context) {
	id, okID := pathUUID(c, "id")
	if !okID {
		return
	}
	resp, err := h.svc.TableOpenInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

// ── Billiard sessions ─────────────────────────────────────────────────────────

// StartBilliard godoc
// @Summary Start the billiard clock on a billiard table's open invoice
// @Tags billiard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.StartBilliardRequest true "Table and invoice"
// @Success 201 {object} dto.BilliardSessionResponse
// @Failure 422 {object} apierror.Error
// @Router /v1/billiard/start [post]
func (h *InvoiceHandler) StartBilliard(c *gin.Context) {
	var req dto.StartBilliardRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.StartBilliard(c.Request.Context(), userID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, resp)
}

func (h *InvoiceHandler) EndBilliard(c *gin.Context) {
	id, okID := pathUUID(c, "id")
	if !okID {
		return
	}
	resp, err := h.svc.EndBilliard(c.Request.Context(), userID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

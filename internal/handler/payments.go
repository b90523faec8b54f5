package handler

import (
	"github.com/Lazvegas61/MyCafe-sql/internal/dto"
	"github.com/Lazvegas61/MyCafe-sql/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct{ svc service.PaymentService }

func NewPaymentHandler(svc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// Process godoc
// @Summary Settle an open invoice in one atomic transaction
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.PaymentRequest true "Payment data"
// @Success 201 {object} dto.PaymentResponse
// @Failure 422 {object} apierror.Error
// @Router /v1/payments [post]
func (h *PaymentHandler) Process(c *gin.Context) {
	var req dto.PaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ProcessPayment(c.Request.Context(), userID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, resp)
}

// Validate godoc
// @Summary Dry-run a payment amount against an invoice
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ValidatePaymentRequest true "Amount to check"
// @Success 200 {object} dto.PaymentValidationResponse
// @Router /v1/payments/validate [post]
func (h *PaymentHandler) Validate(c *gin.Context) {
	var req dto.ValidatePaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ValidatePayment(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

// Refund godoc
// @Summary Refund part or all of a payment recorded in the open day window
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RefundRequest true "Refund data"
// @Success 201 {object} dto.FinanceTransactionResponse
// @Failure 422 {object} apierror.Error
// @Router /v1/refunds [post]
func (h *PaymentHandler) Refund(c *gin.Context) {
	var req dto.RefundRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ProcessRefund(c.Request.Context(), userID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, resp)
}

func (h *PaymentHandler) InvoicePayments(c *gin.Context) {
	id, okID := pathUUID(c, "id")
	if !okID {
		return
	}
	resp, err := h.svc.InvoicePayments(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

func (h *PaymentHandler) DailyPayments(c *gin.Context) {
	resp, err := h.svc.DailyPayments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

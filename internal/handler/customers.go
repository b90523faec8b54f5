package handler

import (
	"strconv"

	"github.com/Lazvegas61/MyCafe-sql/internal/dto"
	"github.com/Lazvegas61/MyCafe-sql/internal/service"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct{ svc service.CustomerService }

func NewCustomerHandler(svc service.CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

// Create godoc
// @Summary Register a customer for the credit ledger
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateCustomerRequest true "Customer data"
// @Success 201 {object} dto.CustomerResponse
// @Failure 422 {object} apierror.Error
// @Router /v1/customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, resp)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	id, okID := pathUUID(c, "id")
	if !okID {
		return
	}
	var req dto.UpdateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateCustomer(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	id, okID := pathUUID(c, "id")
	if !okID {
		return
	}
	resp, err := h.svc.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

func (h *CustomerHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	resp, err := h.svc.SearchCustomers(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

func (h *CustomerHandler) Balance(c *gin.Context) {
	id, okID := pathUUID(c, "id")
	if !okID {
		return
	}
	resp, err := h.svc.Balance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

func (h *CustomerHandler) Debts(c *gin.Context) {
	id, okID := pathUUID(c, "id")
	if !okID {
		return
	}
	resp, err := h.svc.Debts(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

// ── Debt ledger ───────────────────────────────────────────────────────────────

// CreateDebt godoc
// @Summary Put an amount on a customer's tab
// @Tags debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateDebtRequest true "Debt data"
// @Success 201 {object} dto.DebtResponse
// @Failure 422 {object} apierror.Error
// @Router /v1/debts [post]
func (h *CustomerHandler) CreateDebt(c *gin.Context) {
	var req dto.CreateDebtRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateDebt(c.Request.Context(), userID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, resp)
}

// PayDebt godoc
// @Summary Record a payment against a customer's outstanding balance
// @Tags debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.PayDebtRequest true "Payment data"
// @Success 201 {object} dto.DebtResponse
// @Failure 422 {object} apierror.Error
// @Router /v1/debts/pay [post]
func (h *CustomerHandler) PayDebt(c *gin.Context) {
	var req dto.PayDebtRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.PayDebt(c.Request.Context(), userID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, resp)
}

// CorrectDebt godoc
// @Summary Apply a signed administrative correction to a balance
// @Tags debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CorrectDebtRequest true "Correction with mandatory reason"
// @Success 201 {object} dto.DebtResponse
// @Failure 422 {object} apierror.Error
// @Router /v1/debts/correct [post]
func (h *CustomerHandler) CorrectDebt(c *gin.Context) {
	var req dto.CorrectDebtRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CorrectDebt(c.Request.Context(), userID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, resp)
}

package handler

import (
	"strconv"

	"github.com/Lazvegas61/MyCafe-sql/internal/authz"
	"github.com/Lazvegas61/MyCafe-sql/internal/middleware"
	"github.com/Lazvegas61/MyCafe-sql/internal/service"

	"github.com/gin-gonic/gin"
)

type DayHandler struct{ svc service.DayService }

func NewDayHandler(svc service.DayService) *DayHandler { return &DayHandler{svc: svc} }

// Open godoc
// @Summary Open a new operating day
// @Tags days
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.DayResponse
// @Failure 422 {object} apierror.Error
// @Router /v1/days/open [post]
func (h *DayHandler) Open(c *gin.Context) {
	resp, err := h.svc.OpenDay(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, resp)
}

// Close godoc
// @Summary Close the open day, freezing a closing snapshot
// @Tags days
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DayResponse
// @Failure 422 {object} apierror.Error
// @Router /v1/days/close [post]
func (h *DayHandler) Close(c *gin.Context) {
	resp, err := h.svc.CloseDay(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

// Status godoc
// @Summary Public day gate consulted by the POS frontend
// @Tags days
// @Produce json
// @Success 200 {object} dto.DayStatusResponse
// @Router /v1/days/status [get]
func (h *DayHandler) Status(c *gin.Context) {
	resp, err := h.svc.GetStatus(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

func (h *DayHandler) Current(c *gin.Context) {
	resp, err := h.svc.GetCurrentDay(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

func (h *DayHandler) Get(c *gin.Context) {
	id, okID := pathUUID(c, "id")
	if !okID {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.GetDayByID(c.Request.Context(), id, authz.Role(claims.Role))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

// Snapshots godoc
// @Summary List the frozen opening/closing snapshots of a day
// @Tags days
// @Produce json
// @Security BearerAuth
// @Param id path string true "Day ID"
// @Success 200 {array} dto.DaySnapshotResponse
// @Router /v1/days/{id}/snapshots [get]
func (h *DayHandler) Snapshots(c *gin.Context) {
	id, okID := pathUUID(c, "id")
	if !okID {
		return
	}
	resp, err := h.svc.GetSnapshots(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

func (h *DayHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	days, total, err := h.svc.ListDays(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"data": days, "total": total})
}

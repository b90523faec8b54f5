package handler

import (
	"net/http"

	"github.com/Lazvegas61/MyCafe-sql/internal/dto"
	"github.com/Lazvegas61/MyCafe-sql/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{ svc service.AuthService }

func NewUserHandler(svc service.AuthService) *UserHandler { return &UserHandler{svc: svc} }

// Create godoc
// @Summary Create a staff account
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateUserRequest true "User data"
// @Success 201 {object} dto.UserResponse
// @Failure 422 {object} apierror.Error
// @Router /v1/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, resp)
}

func (h *UserHandler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	resp, err := h.svc.ListUsers(c.Request.Context(), includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, okID := pathUUID(c, "id")
	if !okID {
		return
	}
	var req dto.UpdateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, resp)
}

func (h *UserHandler) Deactivate(c *gin.Context) {
	id, okID := pathUUID(c, "id")
	if !okID {
		return
	}
	if err := h.svc.DeactivateUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Reactivate(c *gin.Context) {
	id, okID := pathUUID(c, "id")
	if !okID {
		return
	}
	if err := h.svc.ReactivateUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/Lazvegas61/MyCafe-sql/internal/apierror"
	"github.com/Lazvegas61/MyCafe-sql/internal/dto"
	"github.com/Lazvegas61/MyCafe-sql/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Authenticate and obtain an access/refresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.Error
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		unauthorized := apierror.Unauthorized("invalid credentials")
		c.JSON(http.StatusUnauthorized, unauthorized)
		return
	}
	ok(c, resp)
}

// Refresh godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.Error
// @Router /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		unauthorized := apierror.Unauthorized(err.Error())
		c.JSON(http.StatusUnauthorized, unauthorized)
		return
	}
	ok(c, resp)
}

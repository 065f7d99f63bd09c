package handler

import (
	"context"
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers the public confirmation-code endpoints
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/email/", h.RequestCode)
		authGroup.POST("/token/", h.ExchangeCode)
	}
}

// RequestCode sends a confirmation code, creating the account on first use
// POST /v1/auth/email/
func (h *AuthHandler) RequestCode(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	user, err := h.authService.RequestCode(ctx, req.Email, req.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SignupResponse{Email: user.Email, Username: user.Username})
}

// ExchangeCode trades email + confirmation_code for a bearer token
// POST /v1/auth/token/
func (h *AuthHandler) ExchangeCode(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	token, err := h.authService.ExchangeCode(ctx, req.Email, req.ConfirmationCode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

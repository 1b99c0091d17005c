package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tempo/backend/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

type tokenRequest struct {
	Passcode string `json:"passcode"`
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	result, apiErr := h.authService.IssueToken(c.Request.Context(), req.Passcode)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}

	c.JSON(http.StatusOK, result)
}

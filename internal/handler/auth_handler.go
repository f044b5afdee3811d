package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/larissaOjeda/thesis-canvas/internal/models"
	"github.com/larissaOjeda/thesis-canvas/internal/service"
	appErrors "github.com/larissaOjeda/thesis-canvas/pkg/errors"
	"github.com/larissaOjeda/thesis-canvas/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Token godoc
// @Summary Issue an access token
// @Description Exchange client credentials for a bearer token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.TokenRequest true "Client credentials"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req models.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid token payload"))
		return
	}

	res, err := h.service.Token(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

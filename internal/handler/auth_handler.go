package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookbot-ai/bookbot-api/internal/dto"
	"github.com/bookbot-ai/bookbot-api/internal/models"
	"github.com/bookbot-ai/bookbot-api/internal/service"
	appErrors "github.com/bookbot-ai/bookbot-api/pkg/errors"
	"github.com/bookbot-ai/bookbot-api/pkg/response"
)

// AuthHandler exposes admin authentication endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler builds a new handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login godoc
// @Summary Authenticate as admin
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body dto.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	resp, err := h.auth.Login(models.LoginRequest{Username: req.Username, Password: req.Password})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

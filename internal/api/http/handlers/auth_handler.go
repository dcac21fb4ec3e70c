package handlers

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/glpi-gateway/internal/api/dto"
	"github.com/spec-kit/glpi-gateway/internal/auth"
	apperrors "github.com/spec-kit/glpi-gateway/pkg/util/errorutil"
)

// AuthHandler exchanges the gateway API key for caller JWTs.
type AuthHandler struct {
	tokens *auth.TokenManager
	apiKey string
}

// NewAuthHandler constructs handler.
func NewAuthHandler(tokens *auth.TokenManager, apiKey string) *AuthHandler {
	return &AuthHandler{tokens: tokens, apiKey: apiKey}
}

// IssueToken POST /auth/token.
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	if h.apiKey == "" {
		return apperrors.NewUnauthorized("token issuance disabled: no gateway API key configured")
	}

	provided := c.Get("X-Api-Key")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.apiKey)) != 1 {
		return apperrors.NewUnauthorized("invalid API key")
	}

	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.CallerID) == "" {
		return apperrors.NewValidationError("caller_id required", nil)
	}

	token, expiresAt, err := h.tokens.GenerateToken(req.CallerID)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.TokenResponse{Token: token, ExpiresAt: expiresAt}})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-team-service/internal/api/dto"
	"github.com/spec-kit/task-team-service/internal/service"
)

// AuthHandler exposes login.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := h.auth.Login(c.UserContext(), req.Input())
	if err != nil {
		return err
	}
	return ok(c, dto.NewLoginResponse(res), service.MsgLoginSuccessful)
}

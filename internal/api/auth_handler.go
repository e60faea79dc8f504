package api

import (
	"lodging-service/internal/model"
	"lodging-service/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
	cookie      SessionCookie
}

func NewAuthHandler(authService service.AuthService, cookie SessionCookie) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
	}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var request service.SignupInput

	if err := c.BodyParser(&request); err != nil {
		return badBody(c)
	}

	user, token, err := h.authService.Signup(c.UserContext(), request)
	if err != nil {
		return writeError(c, err)
	}

	h.cookie.set(c, token)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user.Safe()})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var request service.LoginInput

	if err := c.BodyParser(&request); err != nil {
		return badBody(c)
	}

	user, token, err := h.authService.Login(c.UserContext(), request)
	if err != nil {
		return writeError(c, err)
	}

	h.cookie.set(c, token)

	return c.JSON(fiber.Map{"user": user.Safe()})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.cookie.clear(c)
	return c.JSON(fiber.Map{"message": "success"})
}

// GetSession reports the restored user, or null for anonymous callers.
func (h *AuthHandler) GetSession(c *fiber.Ctx) error {
	userID, ok := CurrentUserID(c)
	if !ok {
		return c.JSON(fiber.Map{"user": nil})
	}

	user, err := h.authService.CurrentUser(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}

	var safe *model.SafeUser
	if user != nil {
		safe = user.Safe()
	}
	return c.JSON(fiber.Map{"user": safe})
}

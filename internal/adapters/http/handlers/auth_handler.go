package handlers

import (
	"errors"
	"strings"

	"checkmovil-api/internal/adapters/http/middleware"
	"checkmovil-api/internal/core/domain"
	"checkmovil-api/internal/core/services"
	"checkmovil-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	PIN      string `json:"pin"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles user registration
// @Summary Register new user
// @Description Register a new user; the 4-digit PIN selects the account role
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	username := strings.TrimSpace(req.Username)

	// Format preconditions; business rules live in the service
	if username == "" || req.Password == "" {
		return response.BadRequest(c, "Username and password are required")
	}
	if len(username) < domain.UsernameMinLen {
		return response.BadRequest(c, "Username must be at least 3 characters")
	}
	if len(username) > domain.UsernameMaxLen {
		return response.BadRequest(c, "Username must not exceed 30 characters")
	}
	if len(req.Password) < domain.PasswordMinLen {
		return response.BadRequest(c, "Password must be at least 6 characters")
	}
	if req.PIN == "" {
		return response.BadRequest(c, "A PIN is required to define your role")
	}
	if !domain.ValidPinFormat(req.PIN) {
		return response.BadRequest(c, "PIN must be a 4-digit number")
	}

	input := &services.RegisterInput{
		Username: username,
		Password: req.Password,
		PIN:      req.PIN,
	}

	user, err := h.authService.Register(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			return response.Conflict(c, "Username is already in use")
		case errors.Is(err, domain.ErrSuperuserExists):
			return response.Conflict(c, "A superuser already exists. Only one superuser is allowed per system")
		case errors.Is(err, domain.ErrPinNotRecognized):
			return response.BadRequest(c, "Invalid PIN. Only preset PINs can define roles")
		default:
			return response.InternalServerError(c, "Failed to register user")
		}
	}

	return response.Created(c, "User registered successfully", user)
}

// Login handles user login
// @Summary Login user
// @Description Authenticate user and return a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		return response.BadRequest(c, "Username and password are required")
	}

	input := &services.LoginInput{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
	}

	result, err := h.authService.Login(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrAccountInactive):
			return response.Unauthorized(c, "Account is inactive or suspended")
		case errors.Is(err, domain.ErrBadCredentials):
			return response.Unauthorized(c, "Incorrect password")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	return response.Success(c, "Login successful", fiber.Map{
		"token": result.Token,
		"user":  result.User,
	})
}

// Verify returns the authenticated account behind the presented token.
// AuthMiddleware has already validated the token and re-read the account.
// @Summary Verify token
// @Description Validate the bearer token and return the account it belongs to
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /auth/verify [get]
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	userID, ok := c.Locals(middleware.LocalUserID).(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	user, err := h.authService.GetUserByID(c.Context(), userID)
	if err != nil {
		return response.NotFound(c, "Account not found")
	}

	return response.Success(c, "Token is valid", user.ToResponse())
}

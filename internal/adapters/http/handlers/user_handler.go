package handlers

import (
	"errors"

	"checkmovil-api/internal/adapters/http/middleware"
	"checkmovil-api/internal/core/domain"
	"checkmovil-api/internal/core/services"
	"checkmovil-api/internal/pkg/pagination"
	"checkmovil-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles account administration endpoints (superuser only)
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List lists all user accounts
// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	out, err := h.userService.ListUsers(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	return response.Success(c, "Users retrieved successfully", fiber.Map{
		"users": out.Users,
		"meta":  pagination.GetMeta(params, out.Total),
	})
}

// UpdateUserRequest represents an account update body. Roles are immutable
// after registration, so there is deliberately no role field here.
type UpdateUserRequest struct {
	Status     *string `json:"status"`
	IsVerified *bool   `json:"is_verified"`
}

// Update changes an account's status and/or verification flag
// @Summary Update user account
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body UpdateUserRequest true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [patch]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	callerID, ok := c.Locals(middleware.LocalUserID).(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Status == nil && req.IsVerified == nil {
		return response.BadRequest(c, "Nothing to update")
	}

	input := &services.UpdateUserInput{
		Status:     req.Status,
		IsVerified: req.IsVerified,
	}

	user, err := h.userService.UpdateUser(c.Context(), callerID, uint(id), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrInvalidStatus):
			return response.BadRequest(c, "Invalid account status")
		case errors.Is(err, services.ErrCannotChangeSelf):
			return response.BadRequest(c, "You cannot change your own account status")
		default:
			return response.InternalServerError(c, "Failed to update user")
		}
	}

	return response.Success(c, "User updated successfully", user)
}

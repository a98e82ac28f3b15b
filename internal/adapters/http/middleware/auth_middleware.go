package middleware

import (
	"errors"
	"strings"

	"checkmovil-api/internal/core/domain"
	"checkmovil-api/internal/core/services"
	"checkmovil-api/internal/pkg/jwt"
	"checkmovil-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Context keys set by AuthMiddleware
const (
	LocalUserID     = "userID"
	LocalUsername   = "username"
	LocalRole       = "role"
	LocalIsVerified = "isVerified"
	LocalStatus     = "status"
)

// AuthMiddleware authenticates the request from its Bearer token. Only the
// `Authorization: Bearer <token>` form is accepted; a cookie or any other
// scheme is rejected before the signature is even checked. The account is
// re-read from the store on every request so a suspension takes effect on
// the very next call — no caching here.
func AuthMiddleware(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Access token required")
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return response.Unauthorized(c, "Authorization header must use the Bearer scheme")
		}
		accessToken := strings.TrimPrefix(authHeader, "Bearer ")
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := authService.ValidateAccessToken(accessToken)
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				return response.Unauthorized(c, "Access token expired")
			case errors.Is(err, jwt.ErrTokenMalformed):
				return response.Unauthorized(c, "Malformed access token")
			default:
				return response.Unauthorized(c, "Invalid access token")
			}
		}

		// Guards against tokens outliving their account
		user, err := authService.GetUserByID(c.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				return response.NotFound(c, "Account not found")
			}
			return response.InternalServerError(c, "Failed to load account")
		}

		if !user.IsActive() {
			return response.Unauthorized(c, "Account is inactive or suspended")
		}

		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalUsername, user.Username)
		c.Locals(LocalRole, user.Role)
		c.Locals(LocalIsVerified, user.IsVerified)
		c.Locals(LocalStatus, user.Status)

		return c.Next()
	}
}

// RoleMiddleware allows only the given roles past. It expects
// AuthMiddleware to have run first.
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.ForbiddenRole(c, allowedRoles, role)
	}
}

// SuperuserOnly allows only the superuser
func SuperuserOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleSuperuser)
}

// SupervisorOrAbove allows supervisors and the superuser
func SupervisorOrAbove() fiber.Handler {
	return RoleMiddleware(domain.RoleSupervisor, domain.RoleSuperuser)
}

// CashierOrAbove allows cashiers, supervisors and the superuser
func CashierOrAbove() fiber.Handler {
	return RoleMiddleware(domain.RoleCashier, domain.RoleSupervisor, domain.RoleSuperuser)
}

// RequireVerified rejects accounts that have not been verified yet.
// Runs after AuthMiddleware.
func RequireVerified() fiber.Handler {
	return func(c *fiber.Ctx) error {
		verified, ok := c.Locals(LocalIsVerified).(bool)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !verified {
			return response.Forbidden(c, "Account verification required")
		}
		return c.Next()
	}
}

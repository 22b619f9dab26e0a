package handlers

import (
	"errors"

	"libmanager-backend/internal/core/domain"
	"libmanager-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// handleDomainError maps the domain error taxonomy onto HTTP status codes:
// validation 400, permission 403, not found 404, state conflict and
// invariant guard 409. Anything unclassified is a 500 with a generic
// message so internals never leak to the client.
func handleDomainError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrPermission):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrStateConflict), errors.Is(err, domain.ErrInvariantGuard):
		return response.Conflict(c, err.Error())
	default:
		return response.InternalServerError(c, fallback)
	}
}

// currentUserID reads the authenticated user ID set by the auth middleware
func currentUserID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userID").(uint)
	return userID, ok
}

// currentRole reads the authenticated role set by the auth middleware
func currentRole(c *fiber.Ctx) domain.Role {
	role, _ := c.Locals("role").(string)
	return domain.Role(role)
}

// currentUsername reads the authenticated username set by the auth middleware
func currentUsername(c *fiber.Ctx) string {
	username, _ := c.Locals("username").(string)
	return username
}

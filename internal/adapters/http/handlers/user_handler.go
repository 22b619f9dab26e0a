package handlers

import (
	"errors"

	"libmanager-backend/internal/core/services"
	"libmanager-backend/internal/pkg/pagination"
	"libmanager-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management and profile endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List handles user listing (staff only)
// @Summary List users
// @Description List all user accounts
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	input := &services.ListUsersInput{
		Page:  params.Page,
		Limit: params.Limit,
	}

	result, err := h.userService.ListUsers(c.Context(), input)
	if err != nil {
		return handleDomainError(c, err, "Failed to list users")
	}

	return response.Success(c, "Users retrieved successfully",
		pagination.NewResponse(result.Users, params, result.Total))
}

// Get handles fetching one user (staff only)
// @Summary Get user
// @Description Get a user account by ID
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetUserByID(c.Context(), uint(id))
	if err != nil {
		return handleDomainError(c, err, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", user)
}

// Create handles account creation by an operator
// @Summary Create user
// @Description Create a user account; librarians may only create reader accounts
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UserInput true "User data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var input services.UserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.CreateUser(c.Context(), &input, currentRole(c))
	if err != nil {
		return handleDomainError(c, err, "Failed to create user")
	}

	return response.Created(c, "User created successfully", user)
}

// Update handles account edits by an operator
// @Summary Update user
// @Description Update a user account; empty password keeps the current one
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.UserInput true "User data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var input services.UserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateUser(c.Context(), uint(id), &input, currentRole(c))
	if err != nil {
		return handleDomainError(c, err, "Failed to update user")
	}

	return response.Success(c, "User updated successfully", user)
}

// Delete handles account deletion (admin only)
// @Summary Delete user
// @Description Delete a user account; the last admin cannot be deleted
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	actorID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.userService.DeleteUser(c.Context(), uint(id), actorID, currentRole(c)); err != nil {
		if errors.Is(err, services.ErrCannotDeleteSelf) {
			return response.Conflict(c, "You cannot delete your own account")
		}
		return handleDomainError(c, err, "Failed to delete user")
	}

	return response.Success(c, "User deleted successfully", nil)
}

// UpdateProfile handles self-service profile edits
// @Summary Update own profile
// @Description Update the authenticated user's profile fields
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Profile data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateProfile(c.Context(), userID, &input)
	if err != nil {
		return handleDomainError(c, err, "Failed to update profile")
	}

	return response.Success(c, "Profile updated successfully", user)
}

// UpdatePreferences handles self-service preference toggles
// @Summary Update own preferences
// @Description Update the authenticated user's display and notification preferences
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdatePreferencesInput true "Preferences"
// @Success 200 {object} response.Response
// @Router /profile/preferences [put]
func (h *UserHandler) UpdatePreferences(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.UpdatePreferencesInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdatePreferences(c.Context(), userID, &input)
	if err != nil {
		return handleDomainError(c, err, "Failed to update preferences")
	}

	return response.Success(c, "Preferences updated successfully", user)
}

// ChangePassword handles self-service password change
// @Summary Change own password
// @Description Change the authenticated user's password
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChangePasswordInput true "Old and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /profile/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.userService.ChangePassword(c.Context(), userID, &input); err != nil {
		if errors.Is(err, services.ErrOldPasswordWrong) {
			return response.Unauthorized(c, "Old password is incorrect")
		}
		return handleDomainError(c, err, "Failed to change password")
	}

	return response.Success(c, "Password changed successfully", nil)
}

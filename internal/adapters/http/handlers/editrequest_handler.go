package handlers

import (
	"libmanager-backend/internal/core/services"
	"libmanager-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EditRequestHandler handles the edit proposal queue endpoints
type EditRequestHandler struct {
	editService *services.EditRequestService
}

// NewEditRequestHandler creates a new edit request handler
func NewEditRequestHandler(editService *services.EditRequestService) *EditRequestHandler {
	return &EditRequestHandler{editService: editService}
}

// ResolveRequest represents a resolve body
type ResolveRequest struct {
	Approve bool `json:"approve"`
}

// Propose handles queuing an edit proposal (librarian)
// @Summary Propose a user edit
// @Description Queue a profile edit for a protected user; an admin ratifies or discards it
// @Tags EditRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ProposeEditInput true "Proposed profile"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /edit-requests [post]
func (h *EditRequestHandler) Propose(c *fiber.Ctx) error {
	var input services.ProposeEditInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req, err := h.editService.Propose(c.Context(), &input, currentUsername(c), currentRole(c))
	if err != nil {
		return handleDomainError(c, err, "Failed to queue edit request")
	}

	return response.Created(c, "Edit request queued successfully", req)
}

// List handles listing pending edit requests (admin only)
// @Summary List edit requests
// @Description List all pending edit requests, oldest first
// @Tags EditRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /edit-requests [get]
func (h *EditRequestHandler) List(c *fiber.Ctx) error {
	reqs, err := h.editService.List(c.Context(), currentRole(c))
	if err != nil {
		return handleDomainError(c, err, "Failed to list edit requests")
	}

	return response.Success(c, "Edit requests retrieved successfully", reqs)
}

// Resolve handles ratifying or discarding an edit request (admin only)
// @Summary Resolve an edit request
// @Description Apply or discard a queued edit; either way the request is consumed
// @Tags EditRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Edit request ID"
// @Param body body ResolveRequest true "Resolution"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /edit-requests/{id}/resolve [put]
func (h *EditRequestHandler) Resolve(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	var req ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.editService.Resolve(c.Context(), uint(id), req.Approve, currentRole(c)); err != nil {
		return handleDomainError(c, err, "Failed to resolve edit request")
	}

	message := "Edit request rejected"
	if req.Approve {
		message = "Edit request approved"
	}
	return response.Success(c, message, nil)
}

package handlers

import (
	"time"

	"libmanager-backend/internal/core/domain"
	"libmanager-backend/internal/core/services"
	"libmanager-backend/internal/pkg/pagination"
	"libmanager-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BorrowHandler handles lending endpoints
type BorrowHandler struct {
	borrowService *services.BorrowService
}

// NewBorrowHandler creates a new borrow handler
func NewBorrowHandler(borrowService *services.BorrowService) *BorrowHandler {
	return &BorrowHandler{borrowService: borrowService}
}

// RequestBorrowRequest represents a loan request body
type RequestBorrowRequest struct {
	BookID  uint      `json:"book_id"`
	UserID  uint      `json:"user_id"` // staff may request on behalf of a reader
	DueDate time.Time `json:"due_date"`
}

// CloseBorrowRequest represents a loan close body
type CloseBorrowRequest struct {
	Lost              bool `json:"lost"`
	ManualOverdueDays int  `json:"manual_overdue_days"`
}

// Request handles a loan request
// @Summary Request a loan
// @Description Request a book loan; a copy is reserved immediately
// @Tags Borrows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RequestBorrowRequest true "Loan request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /borrows [post]
func (h *BorrowHandler) Request(c *fiber.Ctx) error {
	var req RequestBorrowRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	callerID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	// Readers borrow for themselves; staff may name another reader.
	userID := callerID
	if req.UserID != 0 && req.UserID != callerID {
		if !currentRole(c).IsStaff() {
			return response.Forbidden(c, "You can only borrow for yourself")
		}
		userID = req.UserID
	}

	if req.DueDate.IsZero() {
		req.DueDate = time.Now().AddDate(0, 0, domain.DefaultLoanDays)
	}

	input := &services.RequestBorrowInput{
		UserID:  userID,
		BookID:  req.BookID,
		DueDate: req.DueDate,
	}

	record, err := h.borrowService.RequestBorrow(c.Context(), input)
	if err != nil {
		return handleDomainError(c, err, "Failed to request loan")
	}

	return response.Created(c, "Loan requested successfully", record)
}

// List handles listing borrow records (staff only)
// @Summary List borrow records
// @Description List borrow records with optional status filter
// @Tags Borrows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param status query string false "Status filter (PENDING, BORROWED, RETURNED, LOST)"
// @Success 200 {object} response.Response
// @Router /borrows [get]
func (h *BorrowHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	input := &services.ListBorrowsInput{
		Page:   params.Page,
		Limit:  params.Limit,
		Status: domain.BorrowStatus(c.Query("status")),
	}

	result, err := h.borrowService.List(c.Context(), input)
	if err != nil {
		return handleDomainError(c, err, "Failed to list borrow records")
	}

	return response.Success(c, "Borrow records retrieved successfully",
		pagination.NewResponse(result.Records, params, result.Total))
}

// My handles listing the caller's own borrow records
// @Summary List my borrow records
// @Description List the authenticated user's borrow history
// @Tags Borrows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /borrows/my [get]
func (h *BorrowHandler) My(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	records, err := h.borrowService.ListByUser(c.Context(), userID)
	if err != nil {
		return handleDomainError(c, err, "Failed to list borrow records")
	}

	return response.Success(c, "Borrow records retrieved successfully", records)
}

// Approve handles loan approval (staff only)
// @Summary Approve a loan
// @Description Transition a pending loan to BORROWED
// @Tags Borrows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Borrow record ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /borrows/{id}/approve [put]
func (h *BorrowHandler) Approve(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid record ID")
	}

	record, err := h.borrowService.Approve(c.Context(), uint(id), currentRole(c))
	if err != nil {
		return handleDomainError(c, err, "Failed to approve loan")
	}

	return response.Success(c, "Loan approved successfully", record)
}

// Close handles loan termination (staff only)
// @Summary Close a loan
// @Description Close a loan as returned or lost and compute the fine
// @Tags Borrows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Borrow record ID"
// @Param body body CloseBorrowRequest true "Close options"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /borrows/{id}/close [put]
func (h *BorrowHandler) Close(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid record ID")
	}

	var req CloseBorrowRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.CloseBorrowInput{
		Lost:              req.Lost,
		ManualOverdueDays: req.ManualOverdueDays,
	}

	fine, err := h.borrowService.Close(c.Context(), uint(id), input, currentRole(c))
	if err != nil {
		return handleDomainError(c, err, "Failed to close loan")
	}

	return response.Success(c, "Loan closed successfully", fiber.Map{
		"fine_amount": fine,
	})
}

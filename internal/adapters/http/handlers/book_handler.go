package handlers

import (
	"libmanager-backend/internal/core/services"
	"libmanager-backend/internal/pkg/pagination"
	"libmanager-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BookHandler handles catalog endpoints
type BookHandler struct {
	bookService *services.BookService
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService *services.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// List handles book listing with search
// @Summary List books
// @Description List books with optional search over title, author and category
// @Tags Books
// @Accept json
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param search query string false "Search term"
// @Success 200 {object} response.Response
// @Router /books [get]
func (h *BookHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	input := &services.ListBooksInput{
		Page:   params.Page,
		Limit:  params.Limit,
		Search: c.Query("search"),
	}

	result, err := h.bookService.List(c.Context(), input)
	if err != nil {
		return handleDomainError(c, err, "Failed to list books")
	}

	return response.Success(c, "Books retrieved successfully",
		pagination.NewResponse(result.Books, params, result.Total))
}

// Get handles fetching one book
// @Summary Get book
// @Description Get a book by ID
// @Tags Books
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [get]
func (h *BookHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	book, err := h.bookService.GetByID(c.Context(), uint(id))
	if err != nil {
		return handleDomainError(c, err, "Failed to get book")
	}

	return response.Success(c, "Book retrieved successfully", book)
}

// Create handles book creation (staff only)
// @Summary Create book
// @Description Add a new title to the catalog
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.BookInput true "Book data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /books [post]
func (h *BookHandler) Create(c *fiber.Ctx) error {
	var input services.BookInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	book, err := h.bookService.Create(c.Context(), &input, currentRole(c))
	if err != nil {
		return handleDomainError(c, err, "Failed to create book")
	}

	return response.Created(c, "Book created successfully", book)
}

// Update handles book edits (staff only)
// @Summary Update book
// @Description Update a catalog title; stock edits are reconciled against copies on loan
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param body body services.BookInput true "Book data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [put]
func (h *BookHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	var input services.BookInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	book, err := h.bookService.Update(c.Context(), uint(id), &input, currentRole(c))
	if err != nil {
		return handleDomainError(c, err, "Failed to update book")
	}

	return response.Success(c, "Book updated successfully", book)
}

// Delete handles book removal (staff only)
// @Summary Delete book
// @Description Remove a title from the catalog
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [delete]
func (h *BookHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	if err := h.bookService.Delete(c.Context(), uint(id), currentRole(c)); err != nil {
		return handleDomainError(c, err, "Failed to delete book")
	}

	return response.Success(c, "Book deleted successfully", nil)
}

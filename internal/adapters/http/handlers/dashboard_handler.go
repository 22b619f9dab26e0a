package handlers

import (
	"libmanager-backend/internal/core/services"
	"libmanager-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles reporting endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats returns the headline counters
// @Summary Dashboard statistics
// @Description Get total books, active borrows, total members and collected fines
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetStats(c.Context(), currentRole(c))
	if err != nil {
		return handleDomainError(c, err, "Failed to get statistics")
	}

	return response.Success(c, "Statistics retrieved successfully", stats)
}

// Monthly returns the six-month lending chart data
// @Summary Monthly lending statistics
// @Description Get borrowed and lost counts for the last six months
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/monthly [get]
func (h *DashboardHandler) Monthly(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetMonthlyStats(c.Context(), currentRole(c))
	if err != nil {
		return handleDomainError(c, err, "Failed to get monthly statistics")
	}

	return response.Success(c, "Monthly statistics retrieved successfully", stats)
}

// Categories returns borrow volume per catalog category
// @Summary Category distribution
// @Description Get borrow counts grouped by book category
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/categories [get]
func (h *DashboardHandler) Categories(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetCategoryStats(c.Context(), currentRole(c))
	if err != nil {
		return handleDomainError(c, err, "Failed to get category statistics")
	}

	return response.Success(c, "Category statistics retrieved successfully", stats)
}

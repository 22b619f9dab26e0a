package services

import (
	"context"
	"time"

	"libmanager-backend/internal/adapters/persistence/models"
	"libmanager-backend/internal/core/domain"

	"gorm.io/gorm"
)

// DashboardService handles reporting queries. It reads the stores directly
// instead of going through repositories: every query here is read-only and
// shaped for a chart, not for domain logic.
type DashboardService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db, now: time.Now}
}

// GetStats returns the headline counters for the admin dashboard
func (s *DashboardService) GetStats(ctx context.Context, actorRole domain.Role) (*domain.Statistic, error) {
	if err := domain.Require(actorRole, domain.ActionViewReports); err != nil {
		return nil, err
	}

	stats := &domain.Statistic{}

	s.db.WithContext(ctx).Table("books").
		Where("deleted_at IS NULL").
		Count(&stats.TotalBooks)

	s.db.WithContext(ctx).Table("borrow_records").
		Where("status IN ?", []domain.BorrowStatus{domain.BorrowPending, domain.BorrowActive}).
		Count(&stats.ActiveBorrows)

	s.db.WithContext(ctx).Table("users").
		Where("role = ? AND deleted_at IS NULL", domain.RoleUser).
		Count(&stats.TotalMembers)

	s.db.WithContext(ctx).Table("borrow_records").
		Select("COALESCE(SUM(fine_amount), 0)").
		Scan(&stats.TotalFines)

	return stats, nil
}

// MonthlyStat represents one month's lending activity
type MonthlyStat struct {
	Month    string `json:"month"` // YYYY-MM
	Borrowed int64  `json:"borrowed"`
	Lost     int64  `json:"lost"`
}

// GetMonthlyStats returns lending activity for the last six months. Every
// month in the window is present, zero-filled when nothing happened, so
// the chart axis is stable.
func (s *DashboardService) GetMonthlyStats(ctx context.Context, actorRole domain.Role) ([]MonthlyStat, error) {
	if err := domain.Require(actorRole, domain.ActionViewReports); err != nil {
		return nil, err
	}

	now := s.now()
	firstMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -5, 0)

	stats := make([]MonthlyStat, 6)
	index := make(map[string]int, 6)
	for i := 0; i < 6; i++ {
		key := firstMonth.AddDate(0, i, 0).Format("2006-01")
		stats[i] = MonthlyStat{Month: key}
		index[key] = i
	}

	var records []models.BorrowRecord
	if err := s.db.WithContext(ctx).
		Where("borrow_date >= ?", firstMonth).
		Find(&records).Error; err != nil {
		return nil, err
	}

	// Bucketing happens here rather than in SQL so the query stays portable
	// across drivers.
	for _, r := range records {
		i, ok := index[r.BorrowDate.Format("2006-01")]
		if !ok {
			continue
		}
		stats[i].Borrowed++
		if r.Status == domain.BorrowLost {
			stats[i].Lost++
		}
	}

	return stats, nil
}

// CategoryStat represents borrow volume for one catalog category
type CategoryStat struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// GetCategoryStats returns borrow counts grouped by book category. Records
// whose book has been deleted fall into the "Khác" bucket.
func (s *DashboardService) GetCategoryStats(ctx context.Context, actorRole domain.Role) ([]CategoryStat, error) {
	if err := domain.Require(actorRole, domain.ActionViewReports); err != nil {
		return nil, err
	}

	var books []models.Book
	if err := s.db.WithContext(ctx).Unscoped().Find(&books).Error; err != nil {
		return nil, err
	}
	categoryOf := make(map[uint]string, len(books))
	for _, b := range books {
		categoryOf[b.ID] = b.Category
	}

	var records []models.BorrowRecord
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	order := make([]string, 0)
	for _, r := range records {
		category := categoryOf[r.BookID]
		if category == "" {
			category = "Khác"
		}
		if _, seen := counts[category]; !seen {
			order = append(order, category)
		}
		counts[category]++
	}

	stats := make([]CategoryStat, len(order))
	for i, category := range order {
		stats[i] = CategoryStat{Category: category, Count: counts[category]}
	}

	return stats, nil
}

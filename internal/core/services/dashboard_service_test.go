package services

import (
	"testing"
	"time"

	"libmanager-backend/internal/adapters/persistence/models"
	"libmanager-backend/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedBorrowRecord(t *testing.T, db *gorm.DB, bookID uint, borrowedAt time.Time, status domain.BorrowStatus, fine int64) {
	t.Helper()
	require.NoError(t, db.Create(&models.BorrowRecord{
		UserID:     1,
		UserName:   "Reader",
		BookID:     bookID,
		BookTitle:  "Title",
		BorrowDate: borrowedAt,
		DueDate:    borrowedAt.AddDate(0, 0, 14),
		Status:     status,
		FineAmount: fine,
	}).Error)
}

func TestGetStatsRequiresAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := NewDashboardService(db)

	for _, role := range []domain.Role{domain.RoleUser, domain.RoleLibrarian} {
		_, err := svc.GetStats(testCtx, role)
		require.ErrorIs(t, err, domain.ErrPermission)
	}
}

func TestGetStatsCounters(t *testing.T) {
	db := newTestDB(t)
	svc := NewDashboardService(db)

	createTestUser(t, db, "admin", domain.RoleAdmin)
	createTestUser(t, db, "librarian", domain.RoleLibrarian)
	createTestUser(t, db, "reader1", domain.RoleUser)
	createTestUser(t, db, "reader2", domain.RoleUser)

	book := createTestBook(t, db, "Nhà Giả Kim", 5, 5)
	now := time.Now()
	seedBorrowRecord(t, db, book.ID, now, domain.BorrowPending, 0)
	seedBorrowRecord(t, db, book.ID, now, domain.BorrowActive, 0)
	seedBorrowRecord(t, db, book.ID, now, domain.BorrowReturned, 15000)
	seedBorrowRecord(t, db, book.ID, now, domain.BorrowLost, 200000)

	stats, err := svc.GetStats(testCtx, domain.RoleAdmin)
	require.NoError(t, err)

	assert.EqualValues(t, 1, stats.TotalBooks)
	assert.EqualValues(t, 2, stats.ActiveBorrows) // PENDING + BORROWED
	assert.EqualValues(t, 2, stats.TotalMembers)  // readers only, not staff
	assert.EqualValues(t, 215000, stats.TotalFines)
}

func TestGetMonthlyStatsZeroFilled(t *testing.T) {
	db := newTestDB(t)
	svc := NewDashboardService(db)
	now := time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	book := createTestBook(t, db, "Clean Code", 5, 5)
	seedBorrowRecord(t, db, book.ID, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), domain.BorrowActive, 0)
	seedBorrowRecord(t, db, book.ID, time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), domain.BorrowLost, 200000)
	// Outside the six-month window, must be ignored.
	seedBorrowRecord(t, db, book.ID, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), domain.BorrowReturned, 0)

	stats, err := svc.GetMonthlyStats(testCtx, domain.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, stats, 6)

	assert.Equal(t, "2024-01", stats[0].Month)
	assert.Equal(t, "2024-06", stats[5].Month)

	byMonth := make(map[string]MonthlyStat)
	for _, s := range stats {
		byMonth[s.Month] = s
	}
	assert.EqualValues(t, 1, byMonth["2024-06"].Borrowed)
	assert.EqualValues(t, 0, byMonth["2024-06"].Lost)
	assert.EqualValues(t, 1, byMonth["2024-04"].Borrowed)
	assert.EqualValues(t, 1, byMonth["2024-04"].Lost)
	assert.EqualValues(t, 0, byMonth["2024-02"].Borrowed)
}

func TestGetCategoryStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewDashboardService(db)

	novel := createTestBook(t, db, "Nhà Giả Kim", 5, 5)
	tech := &models.Book{Title: "Clean Code", Author: "Robert C. Martin", Category: "Công nghệ", TotalStock: 3, AvailableStock: 3}
	require.NoError(t, db.Create(tech).Error)

	now := time.Now()
	seedBorrowRecord(t, db, novel.ID, now, domain.BorrowReturned, 0)
	seedBorrowRecord(t, db, novel.ID, now, domain.BorrowActive, 0)
	seedBorrowRecord(t, db, tech.ID, now, domain.BorrowActive, 0)
	// Record pointing at a book that no longer exists.
	seedBorrowRecord(t, db, 999, now, domain.BorrowReturned, 0)

	stats, err := svc.GetCategoryStats(testCtx, domain.RoleAdmin)
	require.NoError(t, err)

	byCategory := make(map[string]int64)
	for _, s := range stats {
		byCategory[s.Category] = s.Count
	}
	assert.EqualValues(t, 2, byCategory["Văn học"])
	assert.EqualValues(t, 1, byCategory["Công nghệ"])
	assert.EqualValues(t, 1, byCategory["Khác"])
}

package services

import (
	"context"
	"testing"
	"time"

	"libmanager-backend/internal/adapters/persistence/models"
	"libmanager-backend/internal/adapters/persistence/repositories"
	"libmanager-backend/internal/core/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database for one test. The pool is
// pinned to a single connection because each sqlite memory connection is
// its own database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string, role domain.Role) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		FullName: "Test " + username,
		Password: "$2a$12$notarealhashnotarealhashnotarealhashnotarealhash",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestBook(t *testing.T, db *gorm.DB, title string, total, available int) *models.Book {
	t.Helper()

	book := &models.Book{
		Title:          title,
		Author:         "Test Author",
		Category:       "Văn học",
		TotalStock:     total,
		AvailableStock: available,
	}
	require.NoError(t, db.Create(book).Error)
	return book
}

// newBorrowFixture wires a borrow service with a frozen clock
func newBorrowFixture(t *testing.T, at time.Time) (*BorrowService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	svc := NewBorrowService(
		db,
		repositories.NewBorrowRepository(db),
		repositories.NewBookRepository(db),
		repositories.NewUserRepository(db),
	)
	svc.now = func() time.Time { return at }
	return svc, db
}

func fetchBook(t *testing.T, db *gorm.DB, id uint) *models.Book {
	t.Helper()

	var book models.Book
	require.NoError(t, db.First(&book, id).Error)
	return &book
}

func fetchRecord(t *testing.T, db *gorm.DB, id uint) *models.BorrowRecord {
	t.Helper()

	var record models.BorrowRecord
	require.NoError(t, db.First(&record, id).Error)
	return &record
}

var testCtx = context.Background()

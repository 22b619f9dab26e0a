package services

import (
	"testing"
	"time"

	"libmanager-backend/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var frozenNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func TestRequestBorrowReservesStock(t *testing.T) {
	svc, db := newBorrowFixture(t, frozenNow)
	user := createTestUser(t, db, "reader", domain.RoleUser)
	book := createTestBook(t, db, "Nhà Giả Kim", 3, 3)

	record, err := svc.RequestBorrow(testCtx, &RequestBorrowInput{
		UserID:  user.ID,
		BookID:  book.ID,
		DueDate: frozenNow.AddDate(0, 0, 14),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.BorrowPending, record.Status)
	assert.Equal(t, user.FullName, record.UserName)
	assert.Equal(t, book.Title, record.BookTitle)
	assert.Equal(t, frozenNow, record.BorrowDate.UTC())

	// Stock is reserved at admission, before any approval.
	assert.Equal(t, 2, fetchBook(t, db, book.ID).AvailableStock)
}

func TestRequestBorrowOutOfStock(t *testing.T) {
	svc, db := newBorrowFixture(t, frozenNow)
	user := createTestUser(t, db, "reader", domain.RoleUser)
	book := createTestBook(t, db, "Clean Code", 3, 0)

	_, err := svc.RequestBorrow(testCtx, &RequestBorrowInput{
		UserID:  user.ID,
		BookID:  book.ID,
		DueDate: frozenNow.AddDate(0, 0, 14),
	})
	require.ErrorIs(t, err, domain.ErrOutOfStock)
	require.ErrorIs(t, err, domain.ErrStateConflict)

	// The failed request must leave no trace.
	assert.Equal(t, 0, fetchBook(t, db, book.ID).AvailableStock)
	var count int64
	db.Table("borrow_records").Count(&count)
	assert.Zero(t, count)
}

func TestRequestBorrowDueDateMustBeFuture(t *testing.T) {
	svc, db := newBorrowFixture(t, frozenNow)
	user := createTestUser(t, db, "reader", domain.RoleUser)
	book := createTestBook(t, db, "Sapiens", 2, 2)

	for _, due := range []time.Time{frozenNow, frozenNow.Add(-time.Hour)} {
		_, err := svc.RequestBorrow(testCtx, &RequestBorrowInput{
			UserID:  user.ID,
			BookID:  book.ID,
			DueDate: due,
		})
		require.ErrorIs(t, err, domain.ErrDueDateNotFuture)
		require.ErrorIs(t, err, domain.ErrValidation)
	}

	assert.Equal(t, 2, fetchBook(t, db, book.ID).AvailableStock)
}

func TestRequestBorrowActiveLimit(t *testing.T) {
	svc, db := newBorrowFixture(t, frozenNow)
	user := createTestUser(t, db, "reader", domain.RoleUser)
	book := createTestBook(t, db, "Đắc Nhân Tâm", 10, 10)

	due := frozenNow.AddDate(0, 0, 14)
	for i := 0; i < domain.MaxActiveBorrows; i++ {
		_, err := svc.RequestBorrow(testCtx, &RequestBorrowInput{UserID: user.ID, BookID: book.ID, DueDate: due})
		require.NoError(t, err)
	}

	_, err := svc.RequestBorrow(testCtx, &RequestBorrowInput{UserID: user.ID, BookID: book.ID, DueDate: due})
	require.ErrorIs(t, err, domain.ErrBorrowLimit)

	// Closing one record frees a slot.
	records, err := svc.ListByUser(testCtx, user.ID)
	require.NoError(t, err)
	_, err = svc.Close(testCtx, records[0].ID, &CloseBorrowInput{}, domain.RoleLibrarian)
	require.NoError(t, err)

	_, err = svc.RequestBorrow(testCtx, &RequestBorrowInput{UserID: user.ID, BookID: book.ID, DueDate: due})
	require.NoError(t, err)
}

func TestApproveTransitions(t *testing.T) {
	svc, db := newBorrowFixture(t, frozenNow)
	user := createTestUser(t, db, "reader", domain.RoleUser)
	book := createTestBook(t, db, "Tuổi trẻ đáng giá bao nhiêu", 2, 2)

	record, err := svc.RequestBorrow(testCtx, &RequestBorrowInput{
		UserID: user.ID, BookID: book.ID, DueDate: frozenNow.AddDate(0, 0, 14),
	})
	require.NoError(t, err)

	// A reader cannot approve.
	_, err = svc.Approve(testCtx, record.ID, domain.RoleUser)
	require.ErrorIs(t, err, domain.ErrPermission)

	approved, err := svc.Approve(testCtx, record.ID, domain.RoleLibrarian)
	require.NoError(t, err)
	assert.Equal(t, domain.BorrowActive, approved.Status)

	// Approval does not touch stock; it was reserved at admission.
	assert.Equal(t, 1, fetchBook(t, db, book.ID).AvailableStock)

	// Approving a non-pending record is a state conflict.
	_, err = svc.Approve(testCtx, record.ID, domain.RoleLibrarian)
	require.ErrorIs(t, err, domain.ErrNotPending)
}

func TestCloseOnTimeReturn(t *testing.T) {
	svc, db := newBorrowFixture(t, frozenNow)
	user := createTestUser(t, db, "reader", domain.RoleUser)
	book := createTestBook(t, db, "Nhà Giả Kim", 2, 2)

	record, err := svc.RequestBorrow(testCtx, &RequestBorrowInput{
		UserID: user.ID, BookID: book.ID, DueDate: frozenNow.AddDate(0, 0, 14),
	})
	require.NoError(t, err)
	_, err = svc.Approve(testCtx, record.ID, domain.RoleLibrarian)
	require.NoError(t, err)

	fine, err := svc.Close(testCtx, record.ID, &CloseBorrowInput{}, domain.RoleLibrarian)
	require.NoError(t, err)
	assert.Zero(t, fine)

	closed := fetchRecord(t, db, record.ID)
	assert.Equal(t, domain.BorrowReturned, closed.Status)
	assert.NotNil(t, closed.ReturnDate)
	assert.Zero(t, closed.FineAmount)
	assert.Equal(t, 2, fetchBook(t, db, book.ID).AvailableStock)
}

func TestCloseLateReturnFine(t *testing.T) {
	svc, db := newBorrowFixture(t, frozenNow)
	user := createTestUser(t, db, "reader", domain.RoleUser)
	book := createTestBook(t, db, "Clean Code", 2, 2)

	record, err := svc.RequestBorrow(testCtx, &RequestBorrowInput{
		UserID: user.ID, BookID: book.ID, DueDate: frozenNow.AddDate(0, 0, 14),
	})
	require.NoError(t, err)
	_, err = svc.Approve(testCtx, record.ID, domain.RoleLibrarian)
	require.NoError(t, err)

	// Return 3 days after the due date, at a different wall-clock time.
	svc.now = func() time.Time {
		return frozenNow.AddDate(0, 0, 17).Add(5 * time.Hour)
	}

	fine, err := svc.Close(testCtx, record.ID, &CloseBorrowInput{}, domain.RoleLibrarian)
	require.NoError(t, err)
	assert.Equal(t, 3*domain.FinePerDay, fine)

	closed := fetchRecord(t, db, record.ID)
	assert.Equal(t, 3*domain.FinePerDay, closed.FineAmount)
	assert.Contains(t, closed.Notes, "Trễ 3 ngày")
}

func TestCloseManualOverrideFine(t *testing.T) {
	svc, db := newBorrowFixture(t, frozenNow)
	user := createTestUser(t, db, "reader", domain.RoleUser)
	book := createTestBook(t, db, "Sapiens", 2, 2)

	record, err := svc.RequestBorrow(testCtx, &RequestBorrowInput{
		UserID: user.ID, BookID: book.ID, DueDate: frozenNow.AddDate(0, 0, 14),
	})
	require.NoError(t, err)
	_, err = svc.Approve(testCtx, record.ID, domain.RoleLibrarian)
	require.NoError(t, err)

	// Manual override wins even when the record is not calendar-late.
	fine, err := svc.Close(testCtx, record.ID, &CloseBorrowInput{ManualOverdueDays: 5}, domain.RoleLibrarian)
	require.NoError(t, err)
	assert.Equal(t, 5*domain.FinePerDay, fine)
}

func TestCloseLostBook(t *testing.T) {
	svc, db := newBorrowFixture(t, frozenNow)
	user := createTestUser(t, db, "reader", domain.RoleUser)
	book := createTestBook(t, db, "Đắc Nhân Tâm", 3, 3)

	record, err := svc.RequestBorrow(testCtx, &RequestBorrowInput{
		UserID: user.ID, BookID: book.ID, DueDate: frozenNow.AddDate(0, 0, 14),
	})
	require.NoError(t, err)
	_, err = svc.Approve(testCtx, record.ID, domain.RoleLibrarian)
	require.NoError(t, err)

	fine, err := svc.Close(testCtx, record.ID, &CloseBorrowInput{Lost: true}, domain.RoleLibrarian)
	require.NoError(t, err)
	assert.Equal(t, domain.LostBookFine, fine)

	closed := fetchRecord(t, db, record.ID)
	assert.Equal(t, domain.BorrowLost, closed.Status)

	// The copy is gone: availability stays reduced.
	assert.Equal(t, 2, fetchBook(t, db, book.ID).AvailableStock)
}

func TestCloseIsIdempotent(t *testing.T) {
	svc, db := newBorrowFixture(t, frozenNow)
	user := createTestUser(t, db, "reader", domain.RoleUser)
	book := createTestBook(t, db, "Nhà Giả Kim", 2, 2)

	record, err := svc.RequestBorrow(testCtx, &RequestBorrowInput{
		UserID: user.ID, BookID: book.ID, DueDate: frozenNow.AddDate(0, 0, 14),
	})
	require.NoError(t, err)
	_, err = svc.Approve(testCtx, record.ID, domain.RoleLibrarian)
	require.NoError(t, err)

	svc.now = func() time.Time { return frozenNow.AddDate(0, 0, 20) }

	first, err := svc.Close(testCtx, record.ID, &CloseBorrowInput{}, domain.RoleLibrarian)
	require.NoError(t, err)
	assert.Equal(t, 6*domain.FinePerDay, first)

	// Second close is a no-op: zero fine, no state or stock change.
	second, err := svc.Close(testCtx, record.ID, &CloseBorrowInput{}, domain.RoleLibrarian)
	require.NoError(t, err)
	assert.Zero(t, second)

	closed := fetchRecord(t, db, record.ID)
	assert.Equal(t, domain.BorrowReturned, closed.Status)
	assert.Equal(t, 6*domain.FinePerDay, closed.FineAmount)
	assert.Equal(t, 2, fetchBook(t, db, book.ID).AvailableStock)
}

func TestClosePendingReleasesStock(t *testing.T) {
	svc, db := newBorrowFixture(t, frozenNow)
	user := createTestUser(t, db, "reader", domain.RoleUser)
	book := createTestBook(t, db, "Clean Code", 1, 1)

	record, err := svc.RequestBorrow(testCtx, &RequestBorrowInput{
		UserID: user.ID, BookID: book.ID, DueDate: frozenNow.AddDate(0, 0, 14),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, fetchBook(t, db, book.ID).AvailableStock)

	// Closing a still-pending request returns the reserved copy.
	fine, err := svc.Close(testCtx, record.ID, &CloseBorrowInput{}, domain.RoleLibrarian)
	require.NoError(t, err)
	assert.Zero(t, fine)
	assert.Equal(t, 1, fetchBook(t, db, book.ID).AvailableStock)
}

func TestCloseRequiresStaff(t *testing.T) {
	svc, db := newBorrowFixture(t, frozenNow)
	user := createTestUser(t, db, "reader", domain.RoleUser)
	book := createTestBook(t, db, "Sapiens", 1, 1)

	record, err := svc.RequestBorrow(testCtx, &RequestBorrowInput{
		UserID: user.ID, BookID: book.ID, DueDate: frozenNow.AddDate(0, 0, 14),
	})
	require.NoError(t, err)

	_, err = svc.Close(testCtx, record.ID, &CloseBorrowInput{}, domain.RoleUser)
	require.ErrorIs(t, err, domain.ErrPermission)
}

func TestLateDays(t *testing.T) {
	due := time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		close time.Time
		want  int
	}{
		{"same day late evening", time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC), 0},
		{"before due", time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC), 0},
		{"next day early morning", time.Date(2024, 3, 11, 0, 5, 0, 0, time.UTC), 1},
		{"three days", time.Date(2024, 3, 13, 8, 0, 0, 0, time.UTC), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lateDays(tt.close, due))
		})
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"libmanager-backend/internal/adapters/persistence/models"
	"libmanager-backend/internal/adapters/persistence/repositories"
	"libmanager-backend/internal/core/domain"

	"gorm.io/gorm"
)

// BorrowService is the lending engine. It is the only writer of borrow
// record status, fine amounts and loan-related stock deltas. Every mutating
// operation runs inside a single transaction so stock and record changes
// are applied together or not at all.
type BorrowService struct {
	db         *gorm.DB
	borrowRepo *repositories.BorrowRepository
	bookRepo   *repositories.BookRepository
	userRepo   repositories.UserRepository
	now        func() time.Time
}

// NewBorrowService creates a new borrow service
func NewBorrowService(
	db *gorm.DB,
	borrowRepo *repositories.BorrowRepository,
	bookRepo *repositories.BookRepository,
	userRepo repositories.UserRepository,
) *BorrowService {
	return &BorrowService{
		db:         db,
		borrowRepo: borrowRepo,
		bookRepo:   bookRepo,
		userRepo:   userRepo,
		now:        time.Now,
	}
}

// RequestBorrowInput represents a loan request
type RequestBorrowInput struct {
	UserID  uint      `json:"user_id"`
	BookID  uint      `json:"book_id"`
	DueDate time.Time `json:"due_date"`
}

// RequestBorrow admits a loan request. Stock is reserved immediately at
// admission time (before operator approval): the available counter is
// decremented with a guarded update so two concurrent requests can never
// both take the last copy.
func (s *BorrowService) RequestBorrow(ctx context.Context, input *RequestBorrowInput) (*models.BorrowRecord, error) {
	now := s.now()

	if !input.DueDate.After(now) {
		return nil, domain.ErrDueDateNotFuture
	}

	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	active, err := s.borrowRepo.CountActiveByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if active >= domain.MaxActiveBorrows {
		return nil, domain.ErrBorrowLimit
	}

	var record *models.BorrowRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.Where("id = ?", input.BookID).First(&book).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBookNotFound
			}
			return err
		}

		// Guarded decrement: re-validates stock atomically with the
		// reservation so over-admission is impossible.
		res := tx.Model(&models.Book{}).
			Where("id = ? AND available_stock > 0", book.ID).
			Update("available_stock", gorm.Expr("available_stock - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrOutOfStock
		}

		record = &models.BorrowRecord{
			UserID:     user.ID,
			UserName:   user.FullName,
			BookID:     book.ID,
			BookTitle:  book.Title,
			BorrowDate: now,
			DueDate:    input.DueDate,
			Status:     domain.BorrowPending,
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// Approve transitions a record from PENDING to BORROWED. Stock was already
// reserved at admission, so approval touches the record only.
func (s *BorrowService) Approve(ctx context.Context, recordID uint, actorRole domain.Role) (*models.BorrowRecord, error) {
	if err := domain.Require(actorRole, domain.ActionManageLoans); err != nil {
		return nil, err
	}

	record, err := s.borrowRepo.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBorrowNotFound
		}
		return nil, err
	}

	if record.Status != domain.BorrowPending {
		return nil, fmt.Errorf("%w (status: %s)", domain.ErrNotPending, record.Status)
	}

	record.Status = domain.BorrowActive
	if err := s.borrowRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// CloseBorrowInput represents the close (return or loss) of a loan
type CloseBorrowInput struct {
	Lost              bool `json:"lost"`
	ManualOverdueDays int  `json:"manual_overdue_days"`
}

// Close terminates a loan record and returns the computed fine. Closing an
// already-closed record is a no-op returning 0: closed records are
// immutable. Stock is released on return but never on loss.
func (s *BorrowService) Close(ctx context.Context, recordID uint, input *CloseBorrowInput, actorRole domain.Role) (int64, error) {
	if err := domain.Require(actorRole, domain.ActionManageLoans); err != nil {
		return 0, err
	}

	var fine int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.BorrowRecord
		if err := tx.Where("id = ?", recordID).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBorrowNotFound
			}
			return err
		}

		if record.Status.IsClosed() {
			fine = 0
			return nil
		}

		now := s.now()
		record.ReturnDate = &now

		if input.Lost {
			record.Status = domain.BorrowLost
			fine = domain.LostBookFine
			record.Notes = "Làm mất sách"
			// The physical copy is gone: stock is not released.
		} else {
			record.Status = domain.BorrowReturned

			if input.ManualOverdueDays > 0 {
				fine = int64(input.ManualOverdueDays) * domain.FinePerDay
				record.Notes = fmt.Sprintf("Trễ %d ngày (thủ thư xác nhận)", input.ManualOverdueDays)
			} else if days := lateDays(now, record.DueDate); days > 0 {
				fine = int64(days) * domain.FinePerDay
				record.Notes = fmt.Sprintf("Trễ %d ngày", days)
			}

			// Release the reserved unit, clamped at total stock.
			res := tx.Model(&models.Book{}).
				Where("id = ? AND available_stock < total_stock", record.BookID).
				Update("available_stock", gorm.Expr("available_stock + 1"))
			if res.Error != nil {
				return res.Error
			}
		}

		record.FineAmount = fine
		return tx.Save(&record).Error
	})
	if err != nil {
		return 0, err
	}

	return fine, nil
}

// ListByUser lists all borrow records of one user
func (s *BorrowService) ListByUser(ctx context.Context, userID uint) ([]*models.BorrowRecord, error) {
	return s.borrowRepo.ListByUser(ctx, userID)
}

// ListBorrowsInput represents list input
type ListBorrowsInput struct {
	Page   int
	Limit  int
	Status domain.BorrowStatus
}

// ListBorrowsOutput represents list output
type ListBorrowsOutput struct {
	Records    []*models.BorrowRecord `json:"records"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
}

// List lists borrow records for staff views
func (s *BorrowService) List(ctx context.Context, input *ListBorrowsInput) (*ListBorrowsOutput, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 10
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	offset := (input.Page - 1) * input.Limit
	records, total, err := s.borrowRepo.List(ctx, input.Status, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / input.Limit
	if int(total)%input.Limit > 0 {
		totalPages++
	}

	return &ListBorrowsOutput{
		Records:    records,
		Total:      total,
		Page:       input.Page,
		Limit:      input.Limit,
		TotalPages: totalPages,
	}, nil
}

// lateDays returns how many calendar days the close instant is past the due
// date. Both instants are truncated to midnight before subtraction, so a
// same-day return is never late.
func lateDays(closeDate, dueDate time.Time) int {
	closed := startOfDay(closeDate)
	due := startOfDay(dueDate)
	if !closed.After(due) {
		return 0
	}
	return int(math.Ceil(closed.Sub(due).Hours() / 24))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

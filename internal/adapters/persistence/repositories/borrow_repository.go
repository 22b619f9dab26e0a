package repositories

import (
	"context"
	"time"

	"libmanager-backend/internal/adapters/persistence/models"
	"libmanager-backend/internal/core/domain"

	"gorm.io/gorm"
)

// BorrowRepository handles borrow record data access. Records are
// append-then-update only; there is no delete path by design.
type BorrowRepository struct {
	db *gorm.DB
}

// NewBorrowRepository creates a new borrow repository
func NewBorrowRepository(db *gorm.DB) *BorrowRepository {
	return &BorrowRepository{db: db}
}

// Create creates a new borrow record
func (r *BorrowRepository) Create(ctx context.Context, record *models.BorrowRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// GetByID gets a borrow record by ID
func (r *BorrowRepository) GetByID(ctx context.Context, id uint) (*models.BorrowRecord, error) {
	var record models.BorrowRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Update updates a borrow record
func (r *BorrowRepository) Update(ctx context.Context, record *models.BorrowRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// ListByUser lists all borrow records of one user, newest first
func (r *BorrowRepository) ListByUser(ctx context.Context, userID uint) ([]*models.BorrowRecord, error) {
	var records []*models.BorrowRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("borrow_date DESC").
		Find(&records).Error
	return records, err
}

// List lists borrow records with optional status filter and pagination
func (r *BorrowRepository) List(ctx context.Context, status domain.BorrowStatus, offset, limit int) ([]*models.BorrowRecord, int64, error) {
	var records []*models.BorrowRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&models.BorrowRecord{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("borrow_date DESC").Offset(offset).Limit(limit).Find(&records).Error
	return records, total, err
}

// CountActiveByUser counts PENDING and BORROWED records of one user
func (r *BorrowRepository) CountActiveByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BorrowRecord{}).
		Where("user_id = ? AND status IN ?", userID, []domain.BorrowStatus{domain.BorrowPending, domain.BorrowActive}).
		Count(&count).Error
	return count, err
}

// ListOverdue lists BORROWED records whose due date is before the given instant
func (r *BorrowRepository) ListOverdue(ctx context.Context, now time.Time) ([]*models.BorrowRecord, error) {
	var records []*models.BorrowRecord
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date < ?", domain.BorrowActive, now).
		Order("due_date ASC").
		Find(&records).Error
	return records, err
}

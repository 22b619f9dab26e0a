package repositories

import (
	"context"

	"libmanager-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// EditRequestRepository handles user edit request data access
type EditRequestRepository struct {
	db *gorm.DB
}

// NewEditRequestRepository creates a new edit request repository
func NewEditRequestRepository(db *gorm.DB) *EditRequestRepository {
	return &EditRequestRepository{db: db}
}

// Upsert stores the request, replacing any pending request for the same
// target user (one pending request per target).
func (r *EditRequestRepository) Upsert(ctx context.Context, req *models.UserEditRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_user_id = ?", req.TargetUserID).
			Delete(&models.UserEditRequest{}).Error; err != nil {
			return err
		}
		return tx.Create(req).Error
	})
}

// GetByID gets an edit request by ID
func (r *EditRequestRepository) GetByID(ctx context.Context, id uint) (*models.UserEditRequest, error) {
	var req models.UserEditRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// List lists all pending edit requests, oldest first
func (r *EditRequestRepository) List(ctx context.Context) ([]*models.UserEditRequest, error) {
	var reqs []*models.UserEditRequest
	err := r.db.WithContext(ctx).Order("requested_at ASC").Find(&reqs).Error
	return reqs, err
}

// Delete removes an edit request (done after resolve, approved or not)
func (r *EditRequestRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.UserEditRequest{}, id).Error
}

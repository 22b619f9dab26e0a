package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"libmanager-backend/internal/adapters/persistence/models"
	"libmanager-backend/internal/adapters/persistence/repositories"
	"libmanager-backend/internal/core/domain"
	"libmanager-backend/internal/pkg/password"

	"gorm.io/gorm"
)

// EditRequestService runs the proposal queue for profile edits a librarian
// cannot apply directly. A proposal snapshots the full requested profile;
// an admin either ratifies it (the snapshot is applied to the target) or
// discards it. Either way the queue entry is removed.
type EditRequestService struct {
	editRepo *repositories.EditRequestRepository
	userRepo repositories.UserRepository
}

// NewEditRequestService creates a new edit request service
func NewEditRequestService(
	editRepo *repositories.EditRequestRepository,
	userRepo repositories.UserRepository,
) *EditRequestService {
	return &EditRequestService{
		editRepo: editRepo,
		userRepo: userRepo,
	}
}

// ProposeEditInput represents a proposed profile for a target user
type ProposeEditInput struct {
	TargetUserID uint        `json:"target_user_id"`
	FullName     string      `json:"full_name"`
	Username     string      `json:"username"`
	Role         domain.Role `json:"role"`
	Password     string      `json:"password"` // empty = keep current
	Avatar       string      `json:"avatar"`
	BirthDate    string      `json:"birth_date"`
}

// Propose queues an edit proposal. A second proposal for the same target
// supersedes the first. The password, if any, is hashed before the snapshot
// is stored so plaintext never sits in the queue.
func (s *EditRequestService) Propose(ctx context.Context, input *ProposeEditInput, actorName string, actorRole domain.Role) (*models.UserEditRequest, error) {
	if err := domain.Require(actorRole, domain.ActionProposeUserEdit); err != nil {
		return nil, err
	}
	if !input.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if strings.TrimSpace(input.Username) == "" {
		return nil, domain.ErrEmptyUsername
	}
	if strings.TrimSpace(input.FullName) == "" {
		return nil, domain.ErrEmptyFullName
	}

	target, err := s.userRepo.GetByID(ctx, input.TargetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	hashed := ""
	if input.Password != "" {
		if !password.ValidatePassword(input.Password) {
			return nil, domain.ErrWeakPassword
		}
		hashed, err = password.Hash(input.Password)
		if err != nil {
			return nil, err
		}
	}

	req := &models.UserEditRequest{
		TargetUserID:      target.ID,
		TargetCurrentName: target.FullName,
		RequestedBy:       actorName,
		RequestedAt:       time.Now(),
		NewFullName:       strings.TrimSpace(input.FullName),
		NewUsername:       strings.TrimSpace(input.Username),
		NewRole:           input.Role,
		NewPassword:       hashed,
		NewAvatar:         input.Avatar,
		NewBirthDate:      input.BirthDate,
	}

	if err := s.editRepo.Upsert(ctx, req); err != nil {
		return nil, err
	}

	log.Printf("✅ Edit request queued for user ID %d by %s", target.ID, actorName)
	return req, nil
}

// List returns all pending edit requests, oldest first
func (s *EditRequestService) List(ctx context.Context, actorRole domain.Role) ([]*models.UserEditRequest, error) {
	if err := domain.Require(actorRole, domain.ActionResolveEditRequests); err != nil {
		return nil, err
	}
	return s.editRepo.List(ctx)
}

// Resolve ratifies or discards an edit request. On approval the stored
// snapshot is applied to the target user; the queue entry is deleted in
// both outcomes, so a resolved request cannot be resolved twice.
func (s *EditRequestService) Resolve(ctx context.Context, requestID uint, approve bool, actorRole domain.Role) error {
	if err := domain.Require(actorRole, domain.ActionResolveEditRequests); err != nil {
		return err
	}

	req, err := s.editRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRequestNotFound
		}
		return err
	}

	if approve {
		if err := s.apply(ctx, req); err != nil {
			return err
		}
		log.Printf("✅ Edit request %d approved (target user ID %d)", req.ID, req.TargetUserID)
	} else {
		log.Printf("✅ Edit request %d rejected (target user ID %d)", req.ID, req.TargetUserID)
	}

	return s.editRepo.Delete(ctx, req.ID)
}

// apply writes the snapshot onto the target user. An empty NewPassword in
// the snapshot keeps the target's current hash.
func (s *EditRequestService) apply(ctx context.Context, req *models.UserEditRequest) error {
	user, err := s.userRepo.GetByID(ctx, req.TargetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if req.NewUsername != user.Username {
		exists, err := s.userRepo.ExistsByUsername(ctx, req.NewUsername)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateUsername
		}
		user.Username = req.NewUsername
	}

	user.FullName = req.NewFullName
	user.Role = req.NewRole
	user.Avatar = req.NewAvatar
	user.BirthDate = req.NewBirthDate
	if req.NewPassword != "" {
		user.Password = req.NewPassword
	}

	return s.userRepo.Update(ctx, user)
}

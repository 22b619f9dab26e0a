package services

import (
	"context"
	"errors"
	"strings"

	"libmanager-backend/internal/adapters/persistence/models"
	"libmanager-backend/internal/adapters/persistence/repositories"
	"libmanager-backend/internal/core/domain"
	"libmanager-backend/internal/pkg/password"

	"gorm.io/gorm"
)

// User service errors
var (
	ErrOldPasswordWrong = errors.New("old password is incorrect")
	ErrCannotDeleteSelf = errors.New("cannot delete your own account")
)

// UserService handles user management business logic. Every mutating
// operation checks the capability matrix before touching state: a
// librarian may only manage USER-role accounts, deletion is admin-only,
// and the last admin can never be deleted.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UserInput represents user create/update input. An empty Password on
// update means "keep the existing credential".
type UserInput struct {
	Username  string      `json:"username"`
	FullName  string      `json:"full_name"`
	Password  string      `json:"password"`
	Role      domain.Role `json:"role"`
	Avatar    string      `json:"avatar"`
	BirthDate string      `json:"birth_date"`
}

// manageAction maps a target role to the matrix action guarding it
func manageAction(target domain.Role) domain.Action {
	if target.IsStaff() {
		return domain.ActionManageStaff
	}
	return domain.ActionManageMembers
}

// CreateUser creates an account on behalf of an operator
func (s *UserService) CreateUser(ctx context.Context, input *UserInput, actorRole domain.Role) (*models.UserResponse, error) {
	if !input.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if err := domain.Require(actorRole, manageAction(input.Role)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Username) == "" {
		return nil, domain.ErrEmptyUsername
	}
	if strings.TrimSpace(input.FullName) == "" {
		return nil, domain.ErrEmptyFullName
	}
	if !password.ValidatePassword(input.Password) {
		return nil, domain.ErrWeakPassword
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateUsername
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:      strings.TrimSpace(input.Username),
		FullName:      strings.TrimSpace(input.FullName),
		Password:      hashed,
		Role:          input.Role,
		Avatar:        input.Avatar,
		BirthDate:     input.BirthDate,
		Notifications: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user.ToResponse(), nil
}

// UpdateUser updates an account on behalf of an operator. The matrix is
// checked against both the target's current role and the proposed one, so
// a librarian can neither edit staff nor promote a member to staff.
func (s *UserService) UpdateUser(ctx context.Context, id uint, input *UserInput, actorRole domain.Role) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if !input.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if err := domain.Require(actorRole, manageAction(user.Role)); err != nil {
		return nil, err
	}
	if err := domain.Require(actorRole, manageAction(input.Role)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Username) == "" {
		return nil, domain.ErrEmptyUsername
	}
	if strings.TrimSpace(input.FullName) == "" {
		return nil, domain.ErrEmptyFullName
	}

	if input.Username != user.Username {
		exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateUsername
		}
		user.Username = strings.TrimSpace(input.Username)
	}

	user.FullName = strings.TrimSpace(input.FullName)
	user.Role = input.Role
	user.Avatar = input.Avatar
	user.BirthDate = input.BirthDate

	// Empty password keeps the existing hash
	if input.Password != "" {
		if !password.ValidatePassword(input.Password) {
			return nil, domain.ErrWeakPassword
		}
		hashed, err := password.Hash(input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user.ToResponse(), nil
}

// DeleteUser deletes an account (admin only). Deleting the last remaining
// admin is rejected and leaves the store unchanged.
func (s *UserService) DeleteUser(ctx context.Context, id uint, actorID uint, actorRole domain.Role) error {
	if err := domain.Require(actorRole, domain.ActionDeleteUsers); err != nil {
		return err
	}
	if id == actorID {
		return ErrCannotDeleteSelf
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if user.Role == domain.RoleAdmin {
		admins, err := s.userRepo.CountByRole(ctx, domain.RoleAdmin)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return domain.ErrLastAdmin
		}
	}

	return s.userRepo.Delete(ctx, id)
}

// GetUserByID gets a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// ListUsersInput represents list users input
type ListUsersInput struct {
	Page  int
	Limit int
}

// ListUsersOutput represents list users output
type ListUsersOutput struct {
	Users      []*models.UserResponse `json:"users"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
}

// ListUsers lists all users with pagination
func (s *UserService) ListUsers(ctx context.Context, input *ListUsersInput) (*ListUsersOutput, error) {
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
	users, total, err := s.userRepo.List(ctx, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}

	totalPages := int(total) / input.Limit
	if int(total)%input.Limit > 0 {
		totalPages++
	}

	return &ListUsersOutput{
		Users:      responses,
		Total:      total,
		Page:       input.Page,
		Limit:      input.Limit,
		TotalPages: totalPages,
	}, nil
}

// UpdateProfileInput represents self-service profile update input
type UpdateProfileInput struct {
	FullName  *string `json:"full_name"`
	Avatar    *string `json:"avatar"`
	BirthDate *string `json:"birth_date"`
}

// UpdateProfile updates the caller's own profile
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input *UpdateProfileInput) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if input.FullName != nil {
		if strings.TrimSpace(*input.FullName) == "" {
			return nil, domain.ErrEmptyFullName
		}
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}
	if input.BirthDate != nil {
		user.BirthDate = *input.BirthDate
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user.ToResponse(), nil
}

// UpdatePreferencesInput represents preference toggles
type UpdatePreferencesInput struct {
	DarkMode      *bool `json:"dark_mode"`
	Notifications *bool `json:"notifications"`
}

// UpdatePreferences updates the caller's display/notification preferences
func (s *UserService) UpdatePreferences(ctx context.Context, userID uint, input *UpdatePreferencesInput) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if input.DarkMode != nil {
		user.DarkMode = *input.DarkMode
	}
	if input.Notifications != nil {
		user.Notifications = *input.Notifications
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user.ToResponse(), nil
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword changes the caller's own password
func (s *UserService) ChangePassword(ctx context.Context, userID uint, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if !password.Verify(input.OldPassword, user.Password) {
		return ErrOldPasswordWrong
	}
	if !password.ValidatePassword(input.NewPassword) {
		return domain.ErrWeakPassword
	}

	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	return s.userRepo.Update(ctx, user)
}

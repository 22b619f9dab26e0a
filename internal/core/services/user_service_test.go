package services

import (
	"testing"

	"libmanager-backend/internal/adapters/persistence/repositories"
	"libmanager-backend/internal/core/domain"
	"libmanager-backend/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserService(t *testing.T) (*UserService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewUserService(repositories.NewUserRepository(db)), db
}

func TestCreateUserRoleMatrix(t *testing.T) {
	svc, _ := newUserService(t)

	// A librarian may create reader accounts only.
	_, err := svc.CreateUser(testCtx, &UserInput{
		Username: "reader1", FullName: "Reader One", Password: "secret1", Role: domain.RoleUser,
	}, domain.RoleLibrarian)
	require.NoError(t, err)

	_, err = svc.CreateUser(testCtx, &UserInput{
		Username: "lib2", FullName: "Librarian Two", Password: "secret1", Role: domain.RoleLibrarian,
	}, domain.RoleLibrarian)
	require.ErrorIs(t, err, domain.ErrPermission)

	// An admin may create any role.
	_, err = svc.CreateUser(testCtx, &UserInput{
		Username: "lib3", FullName: "Librarian Three", Password: "secret1", Role: domain.RoleLibrarian,
	}, domain.RoleAdmin)
	require.NoError(t, err)

	// A reader may create nothing.
	_, err = svc.CreateUser(testCtx, &UserInput{
		Username: "reader2", FullName: "Reader Two", Password: "secret1", Role: domain.RoleUser,
	}, domain.RoleUser)
	require.ErrorIs(t, err, domain.ErrPermission)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	svc, db := newUserService(t)
	createTestUser(t, db, "taken", domain.RoleUser)

	_, err := svc.CreateUser(testCtx, &UserInput{
		Username: "taken", FullName: "Someone", Password: "secret1", Role: domain.RoleUser,
	}, domain.RoleAdmin)
	require.ErrorIs(t, err, domain.ErrDuplicateUsername)
	require.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestUpdateUserEmptyPasswordKeepsHash(t *testing.T) {
	svc, db := newUserService(t)

	created, err := svc.CreateUser(testCtx, &UserInput{
		Username: "reader", FullName: "Reader", Password: "original1", Role: domain.RoleUser,
	}, domain.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.UpdateUser(testCtx, created.ID, &UserInput{
		Username: "reader", FullName: "Reader Renamed", Role: domain.RoleUser,
	}, domain.RoleAdmin)
	require.NoError(t, err)

	var stored struct{ Password string }
	require.NoError(t, db.Table("users").Select("password").Where("id = ?", created.ID).Scan(&stored).Error)
	assert.True(t, password.Verify("original1", stored.Password))
}

func TestUpdateUserLibrarianCannotPromote(t *testing.T) {
	svc, db := newUserService(t)
	reader := createTestUser(t, db, "reader", domain.RoleUser)

	// Target is a reader, but the proposed role is staff.
	_, err := svc.UpdateUser(testCtx, reader.ID, &UserInput{
		Username: "reader", FullName: "Reader", Role: domain.RoleLibrarian,
	}, domain.RoleLibrarian)
	require.ErrorIs(t, err, domain.ErrPermission)
}

func TestDeleteUserGuards(t *testing.T) {
	svc, db := newUserService(t)
	admin := createTestUser(t, db, "admin", domain.RoleAdmin)
	reader := createTestUser(t, db, "reader", domain.RoleUser)

	// Deletion is admin-only.
	require.ErrorIs(t, svc.DeleteUser(testCtx, reader.ID, 99, domain.RoleLibrarian), domain.ErrPermission)

	// Self-deletion is rejected.
	require.ErrorIs(t, svc.DeleteUser(testCtx, admin.ID, admin.ID, domain.RoleAdmin), ErrCannotDeleteSelf)

	// The last admin cannot be deleted by anyone.
	other := createTestUser(t, db, "admin2", domain.RoleAdmin)
	require.NoError(t, svc.DeleteUser(testCtx, other.ID, admin.ID, domain.RoleAdmin))

	err := svc.DeleteUser(testCtx, admin.ID, other.ID, domain.RoleAdmin)
	require.ErrorIs(t, err, domain.ErrLastAdmin)
	require.ErrorIs(t, err, domain.ErrInvariantGuard)

	// The guarded admin is still there.
	_, err = svc.GetUserByID(testCtx, admin.ID)
	require.NoError(t, err)

	// Deleting a reader is fine.
	require.NoError(t, svc.DeleteUser(testCtx, reader.ID, admin.ID, domain.RoleAdmin))
}

func TestChangePassword(t *testing.T) {
	svc, _ := newUserService(t)

	created, err := svc.CreateUser(testCtx, &UserInput{
		Username: "reader", FullName: "Reader", Password: "oldpass1", Role: domain.RoleUser,
	}, domain.RoleAdmin)
	require.NoError(t, err)

	err = svc.ChangePassword(testCtx, created.ID, &ChangePasswordInput{
		OldPassword: "wrongpass", NewPassword: "newpass1",
	})
	require.ErrorIs(t, err, ErrOldPasswordWrong)

	err = svc.ChangePassword(testCtx, created.ID, &ChangePasswordInput{
		OldPassword: "oldpass1", NewPassword: "newpass1",
	})
	require.NoError(t, err)
}

func TestUpdatePreferences(t *testing.T) {
	svc, db := newUserService(t)
	user := createTestUser(t, db, "reader", domain.RoleUser)

	dark := true
	updated, err := svc.UpdatePreferences(testCtx, user.ID, &UpdatePreferencesInput{DarkMode: &dark})
	require.NoError(t, err)
	assert.True(t, updated.DarkMode)
}

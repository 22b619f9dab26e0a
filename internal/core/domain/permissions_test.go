package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilityMatrix(t *testing.T) {
	tests := []struct {
		role    Role
		action  Action
		allowed bool
	}{
		{RoleAdmin, ActionManageLoans, true},
		{RoleAdmin, ActionManageStaff, true},
		{RoleAdmin, ActionDeleteUsers, true},
		{RoleAdmin, ActionViewReports, true},
		{RoleAdmin, ActionResolveEditRequests, true},

		{RoleLibrarian, ActionManageLoans, true},
		{RoleLibrarian, ActionManageCatalog, true},
		{RoleLibrarian, ActionManageMembers, true},
		{RoleLibrarian, ActionProposeUserEdit, true},
		{RoleLibrarian, ActionManageStaff, false},
		{RoleLibrarian, ActionDeleteUsers, false},
		{RoleLibrarian, ActionViewReports, false},
		{RoleLibrarian, ActionResolveEditRequests, false},

		{RoleUser, ActionManageLoans, false},
		{RoleUser, ActionManageCatalog, false},
		{RoleUser, ActionManageMembers, false},
		{RoleUser, ActionProposeUserEdit, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.allowed, Can(tt.role, tt.action))
		})
	}
}

func TestRequireWrapsPermissionError(t *testing.T) {
	err := Require(RoleUser, ActionManageLoans)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPermission))

	require.NoError(t, Require(RoleAdmin, ActionManageLoans))
}

func TestUnknownRoleHasNoCapabilities(t *testing.T) {
	assert.False(t, Can(Role("GHOST"), ActionManageLoans))
}

func TestRoleHelpers(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleLibrarian.Valid())
	assert.True(t, RoleUser.Valid())
	assert.False(t, Role("GHOST").Valid())

	assert.True(t, RoleAdmin.IsStaff())
	assert.True(t, RoleLibrarian.IsStaff())
	assert.False(t, RoleUser.IsStaff())
}

func TestBorrowStatusIsClosed(t *testing.T) {
	assert.False(t, BorrowPending.IsClosed())
	assert.False(t, BorrowActive.IsClosed())
	assert.True(t, BorrowReturned.IsClosed())
	assert.True(t, BorrowLost.IsClosed())
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		err  error
		root error
	}{
		{ErrDueDateNotFuture, ErrValidation},
		{ErrEmptyTitle, ErrValidation},
		{ErrInvalidRole, ErrValidation},
		{ErrOutOfStock, ErrStateConflict},
		{ErrNotPending, ErrStateConflict},
		{ErrBorrowLimit, ErrStateConflict},
		{ErrLastAdmin, ErrInvariantGuard},
		{ErrUserNotFound, ErrNotFound},
		{ErrBookNotFound, ErrNotFound},
	}

	for _, tt := range tests {
		assert.True(t, errors.Is(tt.err, tt.root), "%v should wrap %v", tt.err, tt.root)
	}
}

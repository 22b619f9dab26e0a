package services

import (
	"testing"

	"libmanager-backend/internal/adapters/persistence/models"
	"libmanager-backend/internal/adapters/persistence/repositories"
	"libmanager-backend/internal/core/domain"
	"libmanager-backend/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newEditRequestService(t *testing.T) (*EditRequestService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewEditRequestService(
		repositories.NewEditRequestRepository(db),
		repositories.NewUserRepository(db),
	), db
}

func proposalFor(target *models.User) *ProposeEditInput {
	return &ProposeEditInput{
		TargetUserID: target.ID,
		FullName:     target.FullName,
		Username:     target.Username,
		Role:         target.Role,
	}
}

func TestProposeRequiresLibrarian(t *testing.T) {
	svc, db := newEditRequestService(t)
	target := createTestUser(t, db, "target", domain.RoleLibrarian)

	_, err := svc.Propose(testCtx, proposalFor(target), "reader", domain.RoleUser)
	require.ErrorIs(t, err, domain.ErrPermission)

	_, err = svc.Propose(testCtx, proposalFor(target), "librarian", domain.RoleLibrarian)
	require.NoError(t, err)
}

func TestProposeSupersedesPrevious(t *testing.T) {
	svc, db := newEditRequestService(t)
	target := createTestUser(t, db, "target", domain.RoleLibrarian)

	first := proposalFor(target)
	first.FullName = "First Proposal"
	_, err := svc.Propose(testCtx, first, "librarian", domain.RoleLibrarian)
	require.NoError(t, err)

	second := proposalFor(target)
	second.FullName = "Second Proposal"
	_, err = svc.Propose(testCtx, second, "librarian", domain.RoleLibrarian)
	require.NoError(t, err)

	// One pending request per target: only the latest survives.
	reqs, err := svc.List(testCtx, domain.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "Second Proposal", reqs[0].NewFullName)
}

func TestListRequiresAdmin(t *testing.T) {
	svc, _ := newEditRequestService(t)

	_, err := svc.List(testCtx, domain.RoleLibrarian)
	require.ErrorIs(t, err, domain.ErrPermission)
}

func TestResolveApprovalAppliesSnapshot(t *testing.T) {
	svc, db := newEditRequestService(t)
	target := createTestUser(t, db, "target", domain.RoleLibrarian)

	input := proposalFor(target)
	input.FullName = "Thủ Thư Mới"
	input.Password = "newsecret1"
	req, err := svc.Propose(testCtx, input, "librarian", domain.RoleLibrarian)
	require.NoError(t, err)

	require.NoError(t, svc.Resolve(testCtx, req.ID, true, domain.RoleAdmin))

	var user models.User
	require.NoError(t, db.First(&user, target.ID).Error)
	assert.Equal(t, "Thủ Thư Mới", user.FullName)
	assert.True(t, password.Verify("newsecret1", user.Password))

	// The queue entry is consumed.
	reqs, err := svc.List(testCtx, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Empty(t, reqs)

	// Resolving again fails: the request no longer exists.
	err = svc.Resolve(testCtx, req.ID, true, domain.RoleAdmin)
	require.ErrorIs(t, err, domain.ErrRequestNotFound)
}

func TestResolveRejectionDiscards(t *testing.T) {
	svc, db := newEditRequestService(t)
	target := createTestUser(t, db, "target", domain.RoleLibrarian)

	input := proposalFor(target)
	input.FullName = "Should Not Apply"
	req, err := svc.Propose(testCtx, input, "librarian", domain.RoleLibrarian)
	require.NoError(t, err)

	require.NoError(t, svc.Resolve(testCtx, req.ID, false, domain.RoleAdmin))

	var user models.User
	require.NoError(t, db.First(&user, target.ID).Error)
	assert.Equal(t, target.FullName, user.FullName)

	reqs, err := svc.List(testCtx, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestResolveRequiresAdmin(t *testing.T) {
	svc, db := newEditRequestService(t)
	target := createTestUser(t, db, "target", domain.RoleLibrarian)

	req, err := svc.Propose(testCtx, proposalFor(target), "librarian", domain.RoleLibrarian)
	require.NoError(t, err)

	require.ErrorIs(t, svc.Resolve(testCtx, req.ID, true, domain.RoleLibrarian), domain.ErrPermission)
}

package domain

import "fmt"

// Action identifies a privileged operation guarded by the capability matrix
type Action string

const (
	ActionManageLoans         Action = "MANAGE_LOANS"    // approve/close borrow records
	ActionManageCatalog       Action = "MANAGE_CATALOG"  // create/edit/delete books
	ActionManageMembers       Action = "MANAGE_MEMBERS"  // create/edit USER-role accounts
	ActionManageStaff         Action = "MANAGE_STAFF"    // create/edit LIBRARIAN/ADMIN accounts
	ActionDeleteUsers         Action = "DELETE_USERS"    // delete any account
	ActionViewReports         Action = "VIEW_REPORTS"    // dashboard aggregates
	ActionProposeUserEdit     Action = "PROPOSE_EDIT"    // queue an edit request for ratification
	ActionResolveEditRequests Action = "RESOLVE_EDITS"   // apply/discard queued edit requests
)

// capabilities is the single source of truth for role permissions. Every
// mutating service operation checks this table before touching state.
var capabilities = map[Role]map[Action]bool{
	RoleAdmin: {
		ActionManageLoans:         true,
		ActionManageCatalog:       true,
		ActionManageMembers:       true,
		ActionManageStaff:         true,
		ActionDeleteUsers:         true,
		ActionViewReports:         true,
		ActionProposeUserEdit:     true,
		ActionResolveEditRequests: true,
	},
	RoleLibrarian: {
		ActionManageLoans:     true,
		ActionManageCatalog:   true,
		ActionManageMembers:   true,
		ActionProposeUserEdit: true,
	},
	RoleUser: {},
}

// Can reports whether the role is allowed to perform the action
func Can(role Role, action Action) bool {
	return capabilities[role][action]
}

// Require returns a permission error when the role may not perform the action
func Require(role Role, action Action) error {
	if !Can(role, action) {
		return fmt.Errorf("%w: role %s may not perform %s", ErrPermission, role, action)
	}
	return nil
}

// Package policy decides which actors may manage user accounts.
package policy

import "go-gin-user-admin/internal/domain"

type Action string

const (
	List           Action = "list"
	ViewCreateForm Action = "view-create-form"
	Create         Action = "create"
	ViewEditForm   Action = "view-edit-form"
	Update         Action = "update"
	Delete         Action = "delete"
)

func Actions() []Action {
	return []Action{List, ViewCreateForm, Create, ViewEditForm, Update, Delete}
}

func (a Action) Known() bool {
	switch a {
	case List, ViewCreateForm, Create, ViewEditForm, Update, Delete:
		return true
	}
	return false
}

// CanAccess reports whether actor may perform action. Only admins pass;
// the target is not consulted, so a user acting on their own record is
// denied like any other.
func CanAccess(actor *domain.User, action Action, target *domain.User) bool {
	_ = target
	if !action.Known() || actor == nil || actor.IsSoftDeleted() {
		return false
	}
	return actor.Role == domain.RoleAdmin
}

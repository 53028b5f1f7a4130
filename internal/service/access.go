package service

import "github.com/suflam/usersvc/internal/domain"

// Operation names a user-management action subject to access control.
type Operation int

const (
	OpCreateUser Operation = iota
	OpListUsers
	OpReadUser
	OpUpdateUser
	OpDeleteUser
)

// Authorize decides whether actor may perform op against the user identified
// by targetID. It is a pure function of the actor's role and id: admins may
// do anything, normal users may only read their own record. It must be
// called after token resolution and before the CRUD operation runs.
func Authorize(actor *domain.User, op Operation, targetID int64) error {
	if actor.Role == domain.RoleAdmin {
		return nil
	}

	switch op {
	case OpReadUser:
		if actor.ID == targetID {
			return nil
		}
		return domain.ErrForbidden
	default:
		return domain.ErrForbidden
	}
}

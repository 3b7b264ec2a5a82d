package auth

import (
	"errors"
	"strconv"
)

var ErrForbidden = errors.New("forbidden")

// Actions understood by Policy.Allow.
const (
	ActionOwn    = "own"
	ActionDelete = "delete"
)

// Policy is a small attribute-based access check layered on top of RBAC.
// The designated admin manages accounts but never owns personal resources,
// and its own account cannot be removed.
type Policy struct {
	AdminUserID int64
}

func NewPolicy(adminUserID int64) *Policy {
	return &Policy{AdminUserID: adminUserID}
}

func (p *Policy) Allow(attrs map[string]string, resourceID string, action string) bool {
	admin := strconv.FormatInt(p.AdminUserID, 10)

	switch action {
	case ActionOwn:
		uid := attrs["user_id"]
		return uid != "" && uid != admin
	case ActionDelete:
		return resourceID != "" && resourceID != admin
	}
	return false
}

// CanOwnTodos checks whether userID may hold and manage todos.
func (p *Policy) CanOwnTodos(userID int64) error {
	attrs := map[string]string{"user_id": strconv.FormatInt(userID, 10)}
	if p.Allow(attrs, "", ActionOwn) {
		return nil
	}
	return ErrForbidden
}

// CanDeleteUser checks whether the account targetID may be removed.
func (p *Policy) CanDeleteUser(targetID int64) error {
	if p.Allow(nil, strconv.FormatInt(targetID, 10), ActionDelete) {
		return nil
	}
	return ErrForbidden
}

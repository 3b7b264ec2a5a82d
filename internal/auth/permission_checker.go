package auth

import "context"

// PermissionAuthorizer decides whether a permission set grants a permission.
type PermissionAuthorizer interface {
	HasPermission(ctx context.Context, userPermissions []string, permission string) (bool, error)
}

// Permission names are "<resource>.<action>".
const (
	PermUsersCreate = "users.create"
	PermUsersFetch  = "users.fetch"
	PermUsersUpdate = "users.update"
	PermUsersDelete = "users.delete"
	PermTodosCreate = "todos.create"
	PermTodosFetch  = "todos.fetch"
	PermTodosUpdate = "todos.update"
	PermTodosDelete = "todos.delete"
)

// AllPermissions is the full catalogue, in seeding order.
var AllPermissions = []string{
	PermUsersCreate, PermUsersFetch, PermUsersUpdate, PermUsersDelete,
	PermTodosCreate, PermTodosFetch, PermTodosUpdate, PermTodosDelete,
}

// DefaultPermissionChecker matches exactly and case-sensitively. No wildcards.
type DefaultPermissionChecker struct{}

func NewPermissionChecker() *DefaultPermissionChecker {
	return &DefaultPermissionChecker{}
}

func (c *DefaultPermissionChecker) HasPermission(_ context.Context, userPermissions []string, permission string) (bool, error) {
	identity := Identity{Permissions: userPermissions}
	return identity.HasPermission(permission), nil
}

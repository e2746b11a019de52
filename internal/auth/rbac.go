package auth

import (
	"github.com/spec-kit/shift-scheduler/internal/domain"
	apperrors "github.com/spec-kit/shift-scheduler/pkg/util"
)

// Permission is an atomic authorization tag.
type Permission string

const (
	PermShiftViewAll Permission = "shift:view:all"
	PermShiftViewOwn Permission = "shift:view:own"
	PermShiftCreate  Permission = "shift:create"
	PermShiftUpdate  Permission = "shift:update"
	PermShiftDelete  Permission = "shift:delete"

	PermUserViewAll Permission = "user:view:all"
	PermUserCreate  Permission = "user:create"
	PermUserUpdate  Permission = "user:update"
	PermUserDelete  Permission = "user:delete"
)

// rolePermissions is the static role to permission assignment. It is fixed at
// startup and safe to share across requests; there is no mutation path.
var rolePermissions = map[domain.Role]map[Permission]struct{}{
	domain.RoleAdmin: permSet(
		PermShiftViewAll,
		PermShiftCreate,
		PermShiftUpdate,
		PermShiftDelete,
		PermUserViewAll,
		PermUserCreate,
		PermUserUpdate,
		PermUserDelete,
	),
	domain.RoleEmployee: permSet(
		PermShiftViewOwn,
	),
}

func permSet(perms ...Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// HasPermission reports whether the identity's role grants the permission.
// Unknown roles resolve to the empty set, never an error.
func HasPermission(identity *domain.Identity, permission Permission) bool {
	if identity == nil {
		return false
	}
	perms, ok := rolePermissions[identity.Role]
	if !ok {
		return false
	}
	_, granted := perms[permission]
	return granted
}

// HasAnyPermission reports whether any of the permissions is granted. An
// empty list yields false.
func HasAnyPermission(identity *domain.Identity, permissions []Permission) bool {
	for _, p := range permissions {
		if HasPermission(identity, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether every permission is granted. An empty
// list yields true.
func HasAllPermissions(identity *domain.Identity, permissions []Permission) bool {
	for _, p := range permissions {
		if !HasPermission(identity, p) {
			return false
		}
	}
	return true
}

// CanViewShift allows admins to view any shift and employees their own.
// View-all overrides view-own; otherwise ownership must match.
func CanViewShift(identity *domain.Identity, shiftUserID int64) bool {
	if HasPermission(identity, PermShiftViewAll) {
		return true
	}
	return HasPermission(identity, PermShiftViewOwn) && identity.ID == shiftUserID
}

func CanCreateShift(identity *domain.Identity) bool {
	return HasPermission(identity, PermShiftCreate)
}

func CanUpdateShift(identity *domain.Identity) bool {
	return HasPermission(identity, PermShiftUpdate)
}

func CanDeleteShift(identity *domain.Identity) bool {
	return HasPermission(identity, PermShiftDelete)
}

func CanViewUsers(identity *domain.Identity) bool {
	return HasPermission(identity, PermUserViewAll)
}

func CanCreateUser(identity *domain.Identity) bool {
	return HasPermission(identity, PermUserCreate)
}

func CanUpdateUser(identity *domain.Identity) bool {
	return HasPermission(identity, PermUserUpdate)
}

func CanDeleteUser(identity *domain.Identity) bool {
	return HasPermission(identity, PermUserDelete)
}

// RequirePermission fails with Forbidden unless the permission is granted.
func RequirePermission(identity *domain.Identity, permission Permission) error {
	if !HasPermission(identity, permission) {
		return apperrors.NewForbidden("Insufficient permissions")
	}
	return nil
}

// RequireAnyPermission mirrors HasAnyPermission as an enforcement primitive.
func RequireAnyPermission(identity *domain.Identity, permissions []Permission) error {
	if !HasAnyPermission(identity, permissions) {
		return apperrors.NewForbidden("Insufficient permissions")
	}
	return nil
}

// RequireAllPermissions mirrors HasAllPermissions as an enforcement primitive.
func RequireAllPermissions(identity *domain.Identity, permissions []Permission) error {
	if !HasAllPermissions(identity, permissions) {
		return apperrors.NewForbidden("Insufficient permissions")
	}
	return nil
}

package auth

import (
	"parq-core/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrInvalidRole = errs.Validation("invalid role")

type Role string

const (
	RoleRequester Role = "requester"
	RoleHost      Role = "host"
	RoleAdmin     Role = "admin"
	// RoleSystem is never issued in tokens; background workers act with it.
	RoleSystem Role = "system"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleRequester, RoleHost, RoleAdmin, RoleSystem:
		return true
	default:
		return false
	}
}

// NewRole parses roles that may appear in a bearer token.
func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() || role == RoleSystem {
		return "", ErrInvalidRole
	}
	return role, nil
}

// Actor is the caller identity every mutating operation receives explicitly.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func NewActor(id uuid.UUID, role Role) Actor {
	return Actor{ID: id, Role: role}
}

func SystemActor() Actor {
	return Actor{ID: uuid.Nil, Role: RoleSystem}
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsSystem() bool {
	return a.Role == RoleSystem
}

// IsPrivileged covers admins and background workers.
func (a Actor) IsPrivileged() bool {
	return a.IsAdmin() || a.IsSystem()
}

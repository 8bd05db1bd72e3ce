package orchestrator

import (
	"context"

	"parq-core/internal/domain/auth"
	"parq-core/internal/pkg/errs"

	"github.com/google/uuid"
)

type Action string

const (
	ActionCreateBooking   Action = "booking:create"
	ActionViewBooking     Action = "booking:view"
	ActionCancelBooking   Action = "booking:cancel"
	ActionCompleteBooking Action = "booking:complete"
	ActionCreateSpot      Action = "spot:create"
	ActionManageSpot      Action = "spot:manage"
	ActionViewWallet      Action = "wallet:view"
	ActionTopUpWallet     Action = "wallet:topup"
	ActionReconcile       Action = "wallet:reconcile"
	ActionCreateCoupon    Action = "coupon:create"
)

// Resource names who owns and who hosts the thing being acted on. Either
// may be nil when it does not apply.
type Resource struct {
	OwnerID *uuid.UUID
	HostID  *uuid.UUID
}

// Authorizer decides; it never mutates.
type Authorizer interface {
	Authorize(ctx context.Context, actor auth.Actor, action Action, res Resource) error
}

// RoleAuthorizer is the built-in role and ownership policy.
type RoleAuthorizer struct{}

func NewRoleAuthorizer() *RoleAuthorizer {
	return &RoleAuthorizer{}
}

func (RoleAuthorizer) Authorize(_ context.Context, actor auth.Actor, action Action, res Resource) error {
	if allowed(actor, action, res) {
		return nil
	}
	return errs.Wrapf(errs.ErrNotAuthorized, "%s may not %s", actor.Role, action)
}

func allowed(actor auth.Actor, action Action, res Resource) bool {
	owner := res.OwnerID != nil && *res.OwnerID == actor.ID
	host := res.HostID != nil && *res.HostID == actor.ID

	switch action {
	case ActionCreateBooking:
		return actor.Role == auth.RoleRequester || actor.IsAdmin()
	case ActionViewBooking:
		return owner || host || actor.IsPrivileged()
	case ActionCancelBooking:
		return owner || host || actor.IsAdmin()
	case ActionCompleteBooking:
		return host || actor.IsPrivileged()
	case ActionCreateSpot:
		return actor.Role == auth.RoleHost || actor.IsAdmin()
	case ActionManageSpot:
		return (actor.Role == auth.RoleHost && host) || actor.IsAdmin()
	case ActionViewWallet:
		return owner || actor.IsPrivileged()
	case ActionTopUpWallet, ActionReconcile, ActionCreateCoupon:
		return actor.IsAdmin()
	default:
		return false
	}
}

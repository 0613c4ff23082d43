package model

import (
	"context"

	"github.com/dtroode/accounts-server/internal/apierrors"
)

// Identity is the request-scoped result of resolving a bearer token:
// the verified claims plus the freshly loaded, status-checked user.
// It is produced only by the authenticate middleware and is never
// cached across requests.
type Identity struct {
	Claims Claims
	User   User
}

// RequirePermission is the single gate called before any sensitive
// operation. The returned error never says which bit was missing.
func (i Identity) RequirePermission(required Permission) error {
	if !Permission(i.User.Permissions).Has(required) {
		return apierrors.NewErrInsufficientPermissions()
	}
	return nil
}

// ContextManager stores and retrieves the resolved identity on a
// request context.
type ContextManager interface {
	SetIdentityToContext(ctx context.Context, identity Identity) context.Context
	GetIdentityFromContext(ctx context.Context) (Identity, bool)
}

package context

import (
	"context"

	"github.com/dtroode/accounts-server/internal/model"
)

type contextKey int

// identityKey is the context key used to store and retrieve the
// resolved identity of the request.
const identityKey contextKey = iota

// Manager represents a request context manager for identity operations.
// It provides methods to set and retrieve the resolved identity.
type Manager struct{}

// NewManager creates a new context manager instance.
//
// Returns a pointer to the newly created Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetIdentityToContext stores the resolved identity in the context.
//
// Parameters:
//   - ctx: The request context
//   - identity: The resolved identity to store
//
// Returns a new context carrying the identity.
func (m *Manager) SetIdentityToContext(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentityFromContext retrieves the resolved identity from the context.
//
// Parameters:
//   - ctx: The request context
//
// Returns the identity and a boolean indicating if it was found.
func (m *Manager) GetIdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(model.Identity)
	return identity, ok
}

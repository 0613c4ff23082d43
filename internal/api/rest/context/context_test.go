package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/accounts-server/internal/model"
)

func TestManager_RoundTrip(t *testing.T) {
	t.Parallel()

	m := NewManager()
	identity := model.Identity{
		Claims: model.Claims{UserID: "42"},
		User:   model.User{ID: 42, Username: "roundtrip", Status: model.StatusActive},
	}

	ctx := m.SetIdentityToContext(context.Background(), identity)

	got, ok := m.GetIdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, identity, got)
}

func TestManager_Missing(t *testing.T) {
	t.Parallel()

	m := NewManager()

	_, ok := m.GetIdentityFromContext(context.Background())
	assert.False(t, ok)
}

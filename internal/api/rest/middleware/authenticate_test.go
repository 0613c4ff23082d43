package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	restcontext "github.com/dtroode/accounts-server/internal/api/rest/context"
	"github.com/dtroode/accounts-server/internal/mocks"
	"github.com/dtroode/accounts-server/internal/model"
	"github.com/dtroode/accounts-server/internal/testutil"
)

func TestAuthenticate_Handle(t *testing.T) {
	t.Parallel()

	activeUser := model.User{ID: 42, Username: "active", Status: model.StatusActive}

	tests := []struct {
		name       string
		authHeader string
		setupMocks func(tokens *mocks.TokenManager, store *mocks.UserStore)
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "valid token and active user",
			authHeader: "Bearer good-token",
			setupMocks: func(tokens *mocks.TokenManager, store *mocks.UserStore) {
				tokens.On("Parse", "good-token").Return(model.Claims{UserID: "42"}, nil)
				store.On("GetByID", mock.Anything, int64(42)).Return(activeUser, nil)
			},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "missing header",
			authHeader: "",
			setupMocks: func(tokens *mocks.TokenManager, store *mocks.UserStore) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			setupMocks: func(tokens *mocks.TokenManager, store *mocks.UserStore) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad-token",
			setupMocks: func(tokens *mocks.TokenManager, store *mocks.UserStore) {
				tokens.On("Parse", "bad-token").Return(model.Claims{}, errors.New("signature is invalid"))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "non numeric subject",
			authHeader: "Bearer odd-token",
			setupMocks: func(tokens *mocks.TokenManager, store *mocks.UserStore) {
				tokens.On("Parse", "odd-token").Return(model.Claims{UserID: "not-a-number"}, nil)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown user",
			authHeader: "Bearer good-token",
			setupMocks: func(tokens *mocks.TokenManager, store *mocks.UserStore) {
				tokens.On("Parse", "good-token").Return(model.Claims{UserID: "42"}, nil)
				store.On("GetByID", mock.Anything, int64(42)).Return(model.User{}, model.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "store failure",
			authHeader: "Bearer good-token",
			setupMocks: func(tokens *mocks.TokenManager, store *mocks.UserStore) {
				tokens.On("Parse", "good-token").Return(model.Claims{UserID: "42"}, nil)
				store.On("GetByID", mock.Anything, int64(42)).Return(model.User{}, errors.New("connection reset"))
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "inactive user",
			authHeader: "Bearer good-token",
			setupMocks: func(tokens *mocks.TokenManager, store *mocks.UserStore) {
				tokens.On("Parse", "good-token").Return(model.Claims{UserID: "42"}, nil)
				store.On("GetByID", mock.Anything, int64(42)).Return(model.User{ID: 42, Status: model.StatusInactive}, nil)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "deleted user looks absent",
			authHeader: "Bearer good-token",
			setupMocks: func(tokens *mocks.TokenManager, store *mocks.UserStore) {
				tokens.On("Parse", "good-token").Return(model.Claims{UserID: "42"}, nil)
				store.On("GetByID", mock.Anything, int64(42)).Return(model.User{ID: 42, Status: model.StatusDeleted}, nil)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := mocks.NewTokenManager(t)
			store := mocks.NewUserStore(t)
			tt.setupMocks(tokens, store)

			cm := restcontext.NewManager()
			m := NewAuthenticate(tokens, store, cm, testutil.MakeNoopLogger())

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				identity, ok := cm.GetIdentityFromContext(r.Context())
				require.True(t, ok)
				assert.Equal(t, activeUser, identity.User)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			m.Handle(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNext, nextCalled)
		})
	}
}

func TestAuthenticate_PublicRoute(t *testing.T) {
	t.Parallel()

	tokens := mocks.NewTokenManager(t)
	store := mocks.NewUserStore(t)
	m := NewAuthenticate(tokens, store, restcontext.NewManager(), testutil.MakeNoopLogger(), "POST /api/users/login")

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})

	req := httptest.NewRequest(http.MethodPost, "/api/users/login", nil)
	rec := httptest.NewRecorder()

	m.Handle(next).ServeHTTP(rec, req)

	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusOK, rec.Code)
	tokens.AssertNotCalled(t, "Parse")
}

package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	restcontext "github.com/dtroode/accounts-server/internal/api/rest/context"
	"github.com/dtroode/accounts-server/internal/mocks"
	"github.com/dtroode/accounts-server/internal/model"
	"github.com/dtroode/accounts-server/internal/password"
	"github.com/dtroode/accounts-server/internal/service"
	"github.com/dtroode/accounts-server/internal/testutil"
)

func testBody(s string) io.Reader { return strings.NewReader(s) }

func newTestRouter(t *testing.T, store model.UserStore, tokens model.TokenManager) http.Handler {
	t.Helper()
	hasher := password.NewHasher(password.Params{MemoryCost: 8 * 1024, TimeCost: 1, Lanes: 1, Length: 32})
	log := testutil.MakeNoopLogger()
	svc := service.NewUsers(store, tokens, hasher, log)
	return New(svc, store, tokens, restcontext.NewManager(), log, "test").Register()
}

func TestRouter_PublicRoutes(t *testing.T) {
	t.Parallel()

	store := mocks.NewUserStore(t)
	tokens := mocks.NewTokenManager(t)
	h := newTestRouter(t, store, tokens)

	t.Run("root info without token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "accounts-server")
	})

	t.Run("login without token", func(t *testing.T) {
		store.On("GetByColumn", mock.Anything, model.ColumnEmail, "ghost@b.co").
			Return(model.User{}, model.ErrNotFound).Once()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/users/login",
			testBody(`{"email":"ghost@b.co","password":"Sup3r$ecret"}`))
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown path", func(t *testing.T) {
		tokens.On("Parse", "tok").Return(model.Claims{UserID: "1"}, nil).Once()
		store.On("GetByID", mock.Anything, int64(1)).
			Return(model.User{ID: 1, Status: model.StatusActive}, nil).Once()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
		req.Header.Set("Authorization", "Bearer tok")
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()

	store := mocks.NewUserStore(t)
	tokens := mocks.NewTokenManager(t)
	h := newTestRouter(t, store, tokens)

	targets := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/users"},
		{http.MethodGet, "/api/users"},
		{http.MethodGet, "/api/users/me"},
		{http.MethodGet, "/api/users/9"},
		{http.MethodPatch, "/api/users/me"},
		{http.MethodPut, "/api/users/change-password"},
		{http.MethodPut, "/api/users/inactive/me"},
		{http.MethodDelete, "/api/users/9"},
	}

	for _, target := range targets {
		t.Run(target.method+" "+target.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(target.method, target.path, nil))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRouter_SelfFlow(t *testing.T) {
	t.Parallel()

	self := model.User{ID: 42, Username: "plain", Email: "p@e.co",
		Permissions: int64(model.DefaultUserPermissions), Status: model.StatusActive}

	store := mocks.NewUserStore(t)
	tokens := mocks.NewTokenManager(t)
	tokens.On("Parse", "self-token").Return(model.Claims{UserID: "42"}, nil)
	store.On("GetByID", mock.Anything, int64(42)).Return(self, nil)

	h := newTestRouter(t, store, tokens)

	t.Run("read own profile", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		req.Header.Set("Authorization", "Bearer self-token")
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"username":"plain"`)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("listing others is forbidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.Header.Set("Authorization", "Bearer self-token")
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("deactivate self", func(t *testing.T) {
		store.On("UpdateStatus", mock.Anything, int64(42), model.StatusInactive).Return(nil).Once()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/users/inactive/me", nil)
		req.Header.Set("Authorization", "Bearer self-token")
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRouter_InactiveUserRejected(t *testing.T) {
	t.Parallel()

	store := mocks.NewUserStore(t)
	tokens := mocks.NewTokenManager(t)
	tokens.On("Parse", "stale-token").Return(model.Claims{UserID: "42"}, nil)
	store.On("GetByID", mock.Anything, int64(42)).
		Return(model.User{ID: 42, Status: model.StatusInactive}, nil)

	h := newTestRouter(t, store, tokens)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

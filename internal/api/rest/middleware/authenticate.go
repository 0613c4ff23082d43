package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dtroode/accounts-server/internal/apierrors"
	"github.com/dtroode/accounts-server/internal/api/rest/response"
	"github.com/dtroode/accounts-server/internal/logger"
	"github.com/dtroode/accounts-server/internal/model"
)

// Authenticate validates bearer tokens, loads the account behind them
// and injects the resolved identity into the request context. Routes
// registered as public pass through untouched.
type Authenticate struct {
	tokens         model.TokenManager
	store          model.UserStore
	contextManager model.ContextManager
	logger         *logger.Logger
	public         map[string]struct{}
}

// NewAuthenticate creates a new Authenticate middleware instance.
// publicRoutes are "METHOD /path" pairs exempt from authentication.
func NewAuthenticate(tokens model.TokenManager, store model.UserStore, contextManager model.ContextManager, logger *logger.Logger, publicRoutes ...string) *Authenticate {
	public := make(map[string]struct{}, len(publicRoutes))
	for _, route := range publicRoutes {
		public[route] = struct{}{}
	}

	return &Authenticate{
		tokens:         tokens,
		store:          store,
		contextManager: contextManager,
		logger:         logger,
		public:         public,
	}
}

// Handle resolves the identity for every non-public request and
// rejects the request when resolution fails.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := m.public[r.Method+" "+r.URL.Path]; ok {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := m.resolveIdentity(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.SetIdentityToContext(r.Context(), identity)))
	})
}

func (m *Authenticate) resolveIdentity(r *http.Request) (model.Identity, error) {
	authHeader := r.Header.Get("Authorization")
	tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || tokenString == "" {
		return model.Identity{}, apierrors.NewErrMissingAuthorizationToken()
	}

	claims, err := m.tokens.Parse(tokenString)
	if err != nil {
		return model.Identity{}, apierrors.NewErrInvalidAuthorizationToken()
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return model.Identity{}, apierrors.NewErrInvalidUserID()
	}

	user, err := m.store.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Identity{}, apierrors.NewErrUserNotFound()
		}
		m.logger.Error("authenticate middleware: failed to load user",
			"user_id", userID,
			"error", err.Error())
		return model.Identity{}, apierrors.NewErrInternalServerError()
	}

	switch user.Status {
	case model.StatusActive:
	case model.StatusInactive:
		return model.Identity{}, apierrors.NewErrUserInactive()
	default:
		return model.Identity{}, apierrors.NewErrUserNotFound()
	}

	return model.Identity{Claims: claims, User: user}, nil
}

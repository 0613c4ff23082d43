package router

import (
	"net/http"

	"github.com/dtroode/accounts-server/internal/api/rest/handler"
	"github.com/dtroode/accounts-server/internal/api/rest/middleware"
	"github.com/dtroode/accounts-server/internal/logger"
	"github.com/dtroode/accounts-server/internal/model"
	"github.com/dtroode/accounts-server/internal/service"
)

// publicRoutes are served without authentication.
var publicRoutes = []string{
	"POST /api/users/login",
	"GET /",
}

// Router wires the account service into an HTTP handler tree with
// logging and authentication middleware.
type Router struct {
	userService    *service.Users
	store          model.UserStore
	tokens         model.TokenManager
	contextManager model.ContextManager
	logger         *logger.Logger
	version        string
}

// New creates new Router instance.
func New(
	userService *service.Users,
	store model.UserStore,
	tokens model.TokenManager,
	contextManager model.ContextManager,
	logger *logger.Logger,
	version string,
) *Router {
	return &Router{
		userService:    userService,
		store:          store,
		tokens:         tokens,
		contextManager: contextManager,
		logger:         logger,
		version:        version,
	}
}

// Register builds the route table and wraps it in the middleware
// chain: logging outermost, then authentication.
func (r *Router) Register() http.Handler {
	mux := http.NewServeMux()

	users := handler.NewUsers(r.userService, r.contextManager, r.logger)
	info := handler.NewInfo("accounts-server", r.version)

	mux.HandleFunc("GET /{$}", info.Get)

	mux.HandleFunc("POST /api/users", users.Create)
	mux.HandleFunc("POST /api/users/login", users.Login)
	mux.HandleFunc("GET /api/users", users.Find)
	mux.HandleFunc("GET /api/users/me", users.GetMe)
	mux.HandleFunc("GET /api/users/{id}", users.GetByID)
	mux.HandleFunc("PATCH /api/users/me", users.UpdateMe)
	mux.HandleFunc("PATCH /api/users/{id}", users.Update)
	mux.HandleFunc("PUT /api/users/change-password", users.ChangePassword)
	mux.HandleFunc("PUT /api/users/inactive/me", users.DeactivateMe)
	mux.HandleFunc("PUT /api/users/inactive/{id}", users.Deactivate)
	mux.HandleFunc("DELETE /api/users/me", users.DeleteMe)
	mux.HandleFunc("DELETE /api/users/{id}", users.Delete)

	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokens, r.store, r.contextManager, r.logger, publicRoutes...)

	return logging.Handle(authenticate.Handle(mux))
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dtroode/accounts-server/internal/apierrors"
	"github.com/dtroode/accounts-server/internal/api/rest/response"
	"github.com/dtroode/accounts-server/internal/logger"
	"github.com/dtroode/accounts-server/internal/model"
	"github.com/dtroode/accounts-server/internal/service"
)

// UserService defines the account operations behind the HTTP surface.
type UserService interface {
	Create(ctx context.Context, in service.CreateUserInput) (model.User, error)
	Login(ctx context.Context, in service.LoginInput) (string, error)
	Find(ctx context.Context, in service.FindInput) (model.SearchResult, error)
	GetByID(ctx context.Context, id int64) (model.User, error)
	Update(ctx context.Context, id int64, fields model.UserUpdate) (model.User, error)
	ChangePassword(ctx context.Context, id int64, in service.ChangePasswordInput) error
	Deactivate(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// Users handles the HTTP endpoints for account management.
type Users struct {
	service        UserService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewUsers creates a new Users handler.
func NewUsers(service UserService, contextManager model.ContextManager, logger *logger.Logger) *Users {
	return &Users{
		service:        service,
		contextManager: contextManager,
		logger:         logger,
	}
}

type resultResponse struct {
	Result any `json:"result"`
}

type searchResponse struct {
	Results []model.User `json:"results"`
	Total   int64        `json:"total"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Create handles POST /api/users.
func (h *Users) Create(w http.ResponseWriter, r *http.Request) {
	identity, err := h.identity(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := identity.RequirePermission(model.PermCreateUsers); err != nil {
		response.Error(w, err)
		return
	}

	var in service.CreateUserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, apierrors.NewErrValidation("invalid request body"))
		return
	}

	user, err := h.service.Create(r.Context(), in)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, resultResponse{Result: user})
}

// Login handles POST /api/users/login.
func (h *Users) Login(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, apierrors.NewErrValidation("invalid request body"))
		return
	}

	token, err := h.service.Login(r.Context(), in)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, tokenResponse{Token: token})
}

// Find handles GET /api/users.
func (h *Users) Find(w http.ResponseWriter, r *http.Request) {
	identity, err := h.identity(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := identity.RequirePermission(model.PermReadUsers); err != nil {
		response.Error(w, err)
		return
	}

	query := r.URL.Query()
	in := service.FindInput{
		QueryKey:   query.Get("queryKey"),
		QueryValue: query.Get("queryValue"),
	}
	if raw := query.Get("page"); raw != "" {
		page, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			response.Error(w, apierrors.NewErrValidation("page must be a number"))
			return
		}
		in.Page = int32(page)
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			response.Error(w, apierrors.NewErrValidation("limit must be a number"))
			return
		}
		in.Limit = int32(limit)
	}

	result, err := h.service.Find(r.Context(), in)
	if err != nil {
		response.Error(w, err)
		return
	}
	if result.Results == nil {
		result.Results = []model.User{}
	}

	response.JSON(w, http.StatusOK, searchResponse{Results: result.Results, Total: result.Total})
}

// GetByID handles GET /api/users/{id}.
func (h *Users) GetByID(w http.ResponseWriter, r *http.Request) {
	h.getUser(w, r, model.PermReadUsers, pathID)
}

// GetMe handles GET /api/users/me.
func (h *Users) GetMe(w http.ResponseWriter, r *http.Request) {
	h.getUser(w, r, model.PermReadSelf, selfID)
}

// Update handles PATCH /api/users/{id}.
func (h *Users) Update(w http.ResponseWriter, r *http.Request) {
	h.updateUser(w, r, model.PermUpdateUsers, pathID)
}

// UpdateMe handles PATCH /api/users/me.
func (h *Users) UpdateMe(w http.ResponseWriter, r *http.Request) {
	h.updateUser(w, r, model.PermUpdateSelf, selfID)
}

// ChangePassword handles PUT /api/users/change-password. It always
// operates on the authenticated user.
func (h *Users) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, err := h.identity(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := identity.RequirePermission(model.PermUpdateSelf); err != nil {
		response.Error(w, err)
		return
	}

	var in service.ChangePasswordInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, apierrors.NewErrValidation("invalid request body"))
		return
	}

	if err := h.service.ChangePassword(r.Context(), identity.User.ID, in); err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, messageResponse{Message: "password changed"})
}

// Deactivate handles PUT /api/users/inactive/{id}.
func (h *Users) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setInactive(w, r, model.PermUpdateUsers, pathID)
}

// DeactivateMe handles PUT /api/users/inactive/me.
func (h *Users) DeactivateMe(w http.ResponseWriter, r *http.Request) {
	h.setInactive(w, r, model.PermUpdateSelf, selfID)
}

// Delete handles DELETE /api/users/{id}.
func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	h.deleteUser(w, r, model.PermDeleteUsers, pathID)
}

// DeleteMe handles DELETE /api/users/me.
func (h *Users) DeleteMe(w http.ResponseWriter, r *http.Request) {
	h.deleteUser(w, r, model.PermDeleteSelf, selfID)
}

// idSource extracts the target user id for an operation from either
// the path or the authenticated identity.
type idSource func(r *http.Request, identity model.Identity) (int64, error)

func pathID(r *http.Request, _ model.Identity) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, apierrors.NewErrInvalidUserID()
	}
	return id, nil
}

func selfID(_ *http.Request, identity model.Identity) (int64, error) {
	return identity.User.ID, nil
}

func (h *Users) getUser(w http.ResponseWriter, r *http.Request, required model.Permission, source idSource) {
	_, id, err := h.authorize(r, required, source)
	if err != nil {
		response.Error(w, err)
		return
	}

	user, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resultResponse{Result: user})
}

func (h *Users) updateUser(w http.ResponseWriter, r *http.Request, required model.Permission, source idSource) {
	_, id, err := h.authorize(r, required, source)
	if err != nil {
		response.Error(w, err)
		return
	}

	var fields model.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		response.Error(w, apierrors.NewErrValidation("invalid request body"))
		return
	}

	user, err := h.service.Update(r.Context(), id, fields)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resultResponse{Result: user})
}

func (h *Users) setInactive(w http.ResponseWriter, r *http.Request, required model.Permission, source idSource) {
	_, id, err := h.authorize(r, required, source)
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := h.service.Deactivate(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, messageResponse{Message: "user deactivated"})
}

func (h *Users) deleteUser(w http.ResponseWriter, r *http.Request, required model.Permission, source idSource) {
	_, id, err := h.authorize(r, required, source)
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Users) authorize(r *http.Request, required model.Permission, source idSource) (model.Identity, int64, error) {
	identity, err := h.identity(r)
	if err != nil {
		return model.Identity{}, 0, err
	}
	if err := identity.RequirePermission(required); err != nil {
		return model.Identity{}, 0, err
	}
	id, err := source(r, identity)
	if err != nil {
		return model.Identity{}, 0, err
	}
	return identity, id, nil
}

func (h *Users) identity(r *http.Request) (model.Identity, error) {
	identity, ok := h.contextManager.GetIdentityFromContext(r.Context())
	if !ok {
		h.logger.Error("Users handler: identity missing from request context",
			"path", r.URL.Path)
		return model.Identity{}, apierrors.NewErrMissingAuthorizationToken()
	}
	return identity, nil
}

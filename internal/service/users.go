package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/dtroode/accounts-server/internal/apierrors"
	"github.com/dtroode/accounts-server/internal/logger"
	"github.com/dtroode/accounts-server/internal/model"
	"github.com/dtroode/accounts-server/internal/password"
)

var (
	usernameRE = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	emailRE    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

const (
	defaultSearchLimit = 100
	maxSearchLimit     = 100
)

// CreateUserInput carries a signup or admin-create request.
type CreateUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput carries a login request.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordInput carries a password change request.
type ChangePasswordInput struct {
	PreviousPassword string `json:"previousPassword"`
	NewPassword      string `json:"newPassword"`
}

// FindInput carries a paged search request. Zero values fall back to
// searching by id with no filter, first page, default limit.
type FindInput struct {
	QueryKey   string
	QueryValue string
	Page       int32
	Limit      int32
}

// Users implements the account operations: permission-gated CRUD,
// login, password change and status transitions.
type Users struct {
	store  model.UserStore
	tokens model.TokenManager
	hasher *password.Hasher
	logger *logger.Logger
}

// NewUsers creates a new Users service.
func NewUsers(store model.UserStore, tokens model.TokenManager, hasher *password.Hasher, logger *logger.Logger) *Users {
	return &Users{store: store, tokens: tokens, hasher: hasher, logger: logger}
}

// Create validates the request, hashes the password and inserts the
// user with the default self-service grant. Duplicate username or
// email surfaces as a conflict.
func (s *Users) Create(ctx context.Context, in CreateUserInput) (model.User, error) {
	if err := validateUsername(in.Username); err != nil {
		return model.User{}, err
	}
	if err := validateEmail(in.Email); err != nil {
		return model.User{}, err
	}
	if err := password.ValidatePolicy(in.Password); err != nil {
		return model.User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.logger.Error("Users service: failed to hash password", "error", err.Error())
		return model.User{}, apierrors.NewErrInternalServerError()
	}

	user, err := s.store.Create(ctx, in.Username, in.Email, hash, int64(model.DefaultUserPermissions))
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			return model.User{}, apierrors.NewErrDuplicateUser()
		}
		s.logger.Error("Users service: failed to create user",
			"username", in.Username,
			"error", err.Error())
		return model.User{}, apierrors.NewErrInternalServerError()
	}

	s.logger.Info("Users service: user created",
		"user_id", user.ID,
		"username", user.Username)

	return user, nil
}

// Login verifies credentials and issues an identity token. Unknown
// email, missing hash and wrong password are indistinguishable to the
// caller.
func (s *Users) Login(ctx context.Context, in LoginInput) (string, error) {
	if err := validateEmail(in.Email); err != nil {
		return "", err
	}

	user, err := s.store.GetByColumn(ctx, model.ColumnEmail, in.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", apierrors.NewErrInvalidCredentials()
		}
		s.logger.Error("Users service: failed to get user by email", "error", err.Error())
		return "", apierrors.NewErrInternalServerError()
	}

	if user.PasswordHash == "" {
		return "", apierrors.NewErrInvalidCredentials()
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.logger.Info("Users service: password verification failed", "user_id", user.ID)
		return "", apierrors.NewErrInvalidCredentials()
	}

	tokenString, err := s.tokens.Generate(user.ID)
	if err != nil {
		s.logger.Error("Users service: failed to generate token",
			"user_id", user.ID,
			"error", err.Error())
		return "", apierrors.NewErrInternalServerError()
	}

	s.logger.Info("Users service: user logged in", "user_id", user.ID)

	return tokenString, nil
}

// Find runs a paged search over one allow-listed column.
func (s *Users) Find(ctx context.Context, in FindInput) (model.SearchResult, error) {
	key := in.QueryKey
	if key == "" {
		key = "id"
	}
	column, err := model.ParseColumn(key)
	if err != nil {
		return model.SearchResult{}, apierrors.NewErrValidation(fmt.Sprintf("%s: invalid search key", key))
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	result, err := s.store.Search(ctx, model.SearchQuery{
		Column: column,
		Value:  in.QueryValue,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		s.logger.Error("Users service: failed to search users", "error", err.Error())
		return model.SearchResult{}, apierrors.NewErrInternalServerError()
	}

	return result, nil
}

// GetByID returns one user without the password hash.
func (s *Users) GetByID(ctx context.Context, id int64) (model.User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, apierrors.NewErrUserNotFound()
		}
		s.logger.Error("Users service: failed to get user by id",
			"user_id", id,
			"error", err.Error())
		return model.User{}, apierrors.NewErrInternalServerError()
	}

	return user, nil
}

// Update applies the supplied fields. An update carrying no fields is
// rejected before any store call.
func (s *Users) Update(ctx context.Context, id int64, fields model.UserUpdate) (model.User, error) {
	if fields.Empty() {
		return model.User{}, apierrors.NewErrNothingToUpdate()
	}
	if fields.Username != nil {
		if err := validateUsername(*fields.Username); err != nil {
			return model.User{}, err
		}
	}
	if fields.Email != nil {
		if err := validateEmail(*fields.Email); err != nil {
			return model.User{}, err
		}
	}

	user, err := s.store.UpdateFields(ctx, id, fields)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			return model.User{}, apierrors.NewErrUserNotFound()
		case errors.Is(err, model.ErrConflict):
			var conflict *model.ConflictError
			if errors.As(err, &conflict) && conflict.Column == model.ColumnEmail {
				return model.User{}, apierrors.NewErrDuplicateEmail()
			}
			return model.User{}, apierrors.NewErrDuplicateUsername()
		}
		s.logger.Error("Users service: failed to update user",
			"user_id", id,
			"error", err.Error())
		return model.User{}, apierrors.NewErrInternalServerError()
	}

	s.logger.Info("Users service: user updated", "user_id", id)

	return user, nil
}

// ChangePassword re-verifies the previous password, enforces the
// strength policy on the new one and replaces the stored hash.
func (s *Users) ChangePassword(ctx context.Context, id int64, in ChangePasswordInput) error {
	if in.PreviousPassword == in.NewPassword {
		return apierrors.NewErrPasswordReuse()
	}

	user, err := s.store.GetByColumn(ctx, model.ColumnID, strconv.FormatInt(id, 10))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierrors.NewErrUserNotFound()
		}
		s.logger.Error("Users service: failed to get user for password change",
			"user_id", id,
			"error", err.Error())
		return apierrors.NewErrInternalServerError()
	}

	if user.PasswordHash == "" {
		s.logger.Error("Users service: user has no stored password hash", "user_id", id)
		return apierrors.NewErrInternalServerError()
	}

	if !s.hasher.Verify(in.PreviousPassword, user.PasswordHash) {
		s.logger.Info("Users service: previous password verification failed", "user_id", id)
		return apierrors.NewErrInvalidCredentials()
	}

	if err := password.ValidatePolicy(in.NewPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		s.logger.Error("Users service: failed to hash new password",
			"user_id", id,
			"error", err.Error())
		return apierrors.NewErrInternalServerError()
	}

	if err := s.store.UpdatePassword(ctx, id, hash); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierrors.NewErrUserNotFound()
		}
		s.logger.Error("Users service: failed to update password",
			"user_id", id,
			"error", err.Error())
		return apierrors.NewErrInternalServerError()
	}

	s.logger.Info("Users service: password changed", "user_id", id)

	return nil
}

// Deactivate marks the user inactive. The still-valid tokens of a
// deactivated user are rejected by the identity resolver on their next
// request.
func (s *Users) Deactivate(ctx context.Context, id int64) error {
	return s.setStatus(ctx, id, model.StatusInactive)
}

// Delete marks the user deleted. Deleted users are indistinguishable
// from nonexistent ones everywhere else.
func (s *Users) Delete(ctx context.Context, id int64) error {
	return s.setStatus(ctx, id, model.StatusDeleted)
}

func (s *Users) setStatus(ctx context.Context, id int64, status int32) error {
	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierrors.NewErrUserNotFound()
		}
		s.logger.Error("Users service: failed to update user status",
			"user_id", id,
			"status", status,
			"error", err.Error())
		return apierrors.NewErrInternalServerError()
	}

	s.logger.Info("Users service: user status updated",
		"user_id", id,
		"status", status)

	return nil
}

func validateUsername(username string) error {
	if len(username) < 3 || len(username) > 100 {
		return apierrors.NewErrValidation("username must be between 3 and 100 characters")
	}
	if !usernameRE.MatchString(username) {
		return apierrors.NewErrValidation("username contains invalid characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" || len(email) > 100 || !emailRE.MatchString(email) {
		return apierrors.NewErrValidation("a valid email is required")
	}
	return nil
}

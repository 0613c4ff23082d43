// Package apierrors defines the error taxonomy exposed to API clients.
// Every error carries an HTTP status and a coarse key used to group
// messages in the response body. Internal causes never travel through
// this package: callers log them and surface a generic server error.
package apierrors

import "net/http"

// Key groups error messages in the response body.
type Key string

const (
	KeyClient     Key = "client"
	KeyServer     Key = "server"
	KeyValidation Key = "validation"
)

// APIError is an error with an HTTP status and a client-safe message.
type APIError struct {
	Status  int
	Key     Key
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func newError(status int, key Key, message string) *APIError {
	return &APIError{Status: status, Key: key, Message: message}
}

// NewErrInvalidCredentials covers every login failure: unknown email,
// wrong password and missing stored hash all collapse to this one error.
func NewErrInvalidCredentials() *APIError {
	return newError(http.StatusUnauthorized, KeyClient, "invalid credentials")
}

// NewErrMissingAuthorizationToken reports an absent or malformed
// Authorization header.
func NewErrMissingAuthorizationToken() *APIError {
	return newError(http.StatusUnauthorized, KeyClient, "missing or invalid authorization token")
}

// NewErrInvalidAuthorizationToken reports a token that failed
// verification. Forged and expired tokens are indistinguishable here.
func NewErrInvalidAuthorizationToken() *APIError {
	return newError(http.StatusUnauthorized, KeyClient, "invalid or expired token")
}

// NewErrInvalidUserID reports a subject id that is not a valid user id.
func NewErrInvalidUserID() *APIError {
	return newError(http.StatusBadRequest, KeyClient, "invalid user id")
}

// NewErrUserNotFound is returned for unknown ids and for deleted
// accounts, which are indistinguishable from nonexistent ones.
func NewErrUserNotFound() *APIError {
	return newError(http.StatusNotFound, KeyServer, "user not found")
}

// NewErrUserInactive reports an authenticated but deactivated account.
func NewErrUserInactive() *APIError {
	return newError(http.StatusForbidden, KeyClient, "user is inactive")
}

// NewErrInsufficientPermissions reports a failed permission check
// without revealing which bit was missing.
func NewErrInsufficientPermissions() *APIError {
	return newError(http.StatusForbidden, KeyClient, "insufficient permissions")
}

// NewErrDuplicateUser reports a create that collided on username or email.
func NewErrDuplicateUser() *APIError {
	return newError(http.StatusConflict, KeyClient, "a user with that username or email already exists")
}

// NewErrDuplicateUsername reports an update that collided on username.
func NewErrDuplicateUsername() *APIError {
	return newError(http.StatusConflict, KeyClient, "another user already has that username")
}

// NewErrDuplicateEmail reports an update that collided on email.
func NewErrDuplicateEmail() *APIError {
	return newError(http.StatusConflict, KeyClient, "another user already has that email")
}

// NewErrNothingToUpdate reports an update request with no mutable fields.
func NewErrNothingToUpdate() *APIError {
	return newError(http.StatusBadRequest, KeyClient, "nothing to update")
}

// NewErrPasswordReuse reports a password change to the identical password.
func NewErrPasswordReuse() *APIError {
	return newError(http.StatusBadRequest, KeyClient, "new password must differ from the previous one")
}

// NewErrWeakPassword reports a password that fails the strength policy.
func NewErrWeakPassword(message string) *APIError {
	return newError(http.StatusBadRequest, KeyValidation, message)
}

// NewErrValidation reports a malformed or invalid request field.
func NewErrValidation(message string) *APIError {
	return newError(http.StatusBadRequest, KeyValidation, message)
}

// NewErrInternalServerError hides any internal failure behind a generic
// message. The cause must be logged by the caller before mapping.
func NewErrInternalServerError() *APIError {
	return newError(http.StatusInternalServerError, KeyServer, "internal server error")
}

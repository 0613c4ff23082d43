package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dtroode/accounts-server/internal/apierrors"
	"github.com/dtroode/accounts-server/internal/model"
)

// ErrorBody is the wire shape of every error response. Messages are
// grouped under a key naming the party at fault.
type ErrorBody struct {
	Errors map[string][]string `json:"errors"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes err as an error response. API errors keep their status
// and key. Everything else collapses to a generic internal error so
// internals never leak to clients.
func Error(w http.ResponseWriter, err error) {
	var apiErr *apierrors.APIError
	switch {
	case errors.As(err, &apiErr):
	case errors.Is(err, model.ErrNotFound):
		apiErr = apierrors.NewErrUserNotFound()
	default:
		apiErr = apierrors.NewErrInternalServerError()
	}

	JSON(w, apiErr.Status, ErrorBody{Errors: map[string][]string{string(apiErr.Key): {apiErr.Message}}})
}

package handler

import (
	"net/http"

	"github.com/dtroode/accounts-server/internal/api/rest/response"
)

// Info reports service identity on the root route. It doubles as a
// liveness probe target.
type Info struct {
	name    string
	version string
}

// NewInfo creates a new Info handler.
func NewInfo(name, version string) *Info {
	return &Info{name: name, version: version}
}

type infoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Get handles GET /.
func (h *Info) Get(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, infoResponse{Name: h.name, Version: h.version})
}

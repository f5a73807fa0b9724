// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/passfinder/passfinder/internal/handler/dto"
)

// Handler serves the service index and fallback routes.
type Handler struct {
	version string
	sources []string
}

// New creates a new Handler. sources lists the enabled source names in
// priority order.
func New(version string, sources []string) *Handler {
	return &Handler{version: version, sources: sources}
}

// IndexResponse describes the running service.
type IndexResponse struct {
	Service string   `json:"service"`
	Version string   `json:"version"`
	Sources []string `json:"sources"`
}

// Hello reports the service name, version and enabled sources.
// GET /
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	sources := h.sources
	if sources == nil {
		sources = []string{}
	}
	writeJSON(w, http.StatusOK, IndexResponse{
		Service: "passfinder",
		Version: h.version,
		Sources: sources,
	})
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, dto.NewError("resource not found"))
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, dto.NewError("method not allowed"))
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already sent; an encode error here means the client went away.
	_ = json.NewEncoder(w).Encode(data)
}

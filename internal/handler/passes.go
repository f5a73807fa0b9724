package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/passfinder/passfinder/internal/handler/dto"
	"github.com/passfinder/passfinder/internal/model"
)

// Resolver produces the pass listing for a user. aggregator.Aggregator
// implements it.
type Resolver interface {
	Resolve(ctx context.Context, userID uint64) model.AggregationResult
}

// PassesHandler serves the pass listing endpoint.
type PassesHandler struct {
	resolver Resolver
	logger   *slog.Logger
}

// NewPassesHandler creates a new PassesHandler.
func NewPassesHandler(resolver Resolver, logger *slog.Logger) *PassesHandler {
	return &PassesHandler{resolver: resolver, logger: logger}
}

// List handles GET /user/{userId}/passes.
//
// Upstream failures are absorbed by the resolver, so any well-formed user id
// yields 200 with ok=true, possibly with an empty list.
func (h *PassesHandler) List(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "userId")
	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		h.logger.Debug("rejecting user id", "user_id", raw, "error", err)
		writeJSON(w, http.StatusBadRequest, dto.NewError("invalid user id"))
		return
	}

	result := h.resolver.Resolve(r.Context(), userID)

	writeJSON(w, http.StatusOK, result)
}

package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/eventix/eventix-be/internal/services"
)

// CategoryHandler serves the fixed category lookup set.
type CategoryHandler struct {
	service services.CategoryServiceProvider
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service services.CategoryServiceProvider) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// List handles GET /api/categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch categories")
		writeError(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

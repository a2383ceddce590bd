package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/eventix/eventix-be/internal/services"
)

// ClubHandler handles HTTP requests for club listing and registration.
type ClubHandler struct {
	service  services.ClubServiceProvider
	validate *validator.Validate
}

// NewClubHandler creates a new ClubHandler.
func NewClubHandler(service services.ClubServiceProvider) *ClubHandler {
	return &ClubHandler{service: service, validate: newValidator()}
}

// ClubPayload defines the structure for club registration requests.
type ClubPayload struct {
	Name        string  `json:"club_name" validate:"required,max=100"`
	Email       string  `json:"club_email" validate:"required,email,max=120"`
	Password    string  `json:"club_password" validate:"required,min=8,max=128"`
	Description *string `json:"club_description"`
}

// List handles GET /api/clubs.
func (h *ClubHandler) List(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.service.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list clubs")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"clubs": clubs})
}

// Create handles POST /api/clubs. Club signup is open registration: no
// authentication guards this endpoint.
func (h *ClubHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload ClubPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	id, err := h.service.Create(r.Context(), payload.Name, payload.Email, payload.Password, payload.Description)
	switch {
	case err == services.ErrEmailTaken:
		writeError(w, http.StatusConflict, "Club name or email already in use")
		return
	case err != nil:
		log.Error().Err(err).Str("club_name", payload.Name).Msg("Failed to create club")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Club created",
		"clubId":  id,
	})
}

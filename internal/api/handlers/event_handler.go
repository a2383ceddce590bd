package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/eventix/eventix-be/internal/auth"
	"github.com/eventix/eventix-be/internal/services"
)

// EventHandler handles HTTP requests for event card management.
type EventHandler struct {
	service  services.EventServiceProvider
	validate *validator.Validate
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service, validate: newValidator()}
}

// FlexID accepts a JSON string or number id. Anything that does not coerce
// to an integer stays zero and is caught by the gt=0 validation rule.
type FlexID int64

func (f *FlexID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(b)), `"`))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexID(n)
	return nil
}

// EventPayload defines the structure for event create/update requests.
type EventPayload struct {
	Title       string  `json:"event_title" validate:"required"`
	Date        string  `json:"event_date" validate:"required"`
	Location    string  `json:"event_location" validate:"required"`
	ClubID      FlexID  `json:"club_id" validate:"required,gt=0"`
	CategoryID  FlexID  `json:"category_id" validate:"required,gt=0"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	Description *string `json:"event_description"`
	BrochureURL *string `json:"brochure_url"`
	Schedule    *string `json:"event_schedule"`
	Terms       *string `json:"terms"`
}

// decodeEventInput decodes, validates and coerces an event payload. A nil
// input with a handled response means the caller should return.
func (h *EventHandler) decodeEventInput(w http.ResponseWriter, r *http.Request) *services.EventInput {
	var payload EventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return nil
	}
	if err := h.validate.Struct(payload); err != nil {
		writeValidationError(w, err)
		return nil
	}

	date, err := services.NormalizeEventDate(payload.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "Invalid payload",
			"details": map[string]string{"event_date": "unrecognized date format"},
		})
		return nil
	}

	return &services.EventInput{
		Title:       payload.Title,
		Date:        date,
		Location:    payload.Location,
		ClubID:      int64(payload.ClubID),
		CategoryID:  int64(payload.CategoryID),
		ImageURL:    nilIfEmpty(payload.ImageURL),
		Description: nilIfEmpty(payload.Description),
		BrochureURL: nilIfEmpty(payload.BrochureURL),
		Schedule:    nilIfEmpty(payload.Schedule),
		Terms:       nilIfEmpty(payload.Terms),
	}
}

// Create handles POST /api/events. The router restricts it to club and
// superadmin tokens; a club's event is always pinned to its own club id.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing authorization token")
		return
	}

	input := h.decodeEventInput(w, r)
	if input == nil {
		return
	}

	event, err := h.service.Create(r.Context(), claims, *input)
	switch {
	case err == services.ErrInvalidReference:
		writeError(w, http.StatusBadRequest, "Unknown club or category")
		return
	case err != nil:
		log.Error().Err(err).Msg("Failed to create event")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Event created successfully",
		"event":   event,
	})
}

// List handles GET /api/events and GET /api/events/cards/all.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list events")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// Mine handles GET /api/events/mine: a club's own events, or everything for
// a superadmin.
func (h *EventHandler) Mine(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing authorization token")
		return
	}

	events, err := h.service.ListMine(r.Context(), claims)
	switch {
	case err == services.ErrForbidden:
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	case err != nil:
		log.Error().Err(err).Msg("Failed to list own events")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// Get handles GET /api/events/{id}.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	event, err := h.service.GetByID(r.Context(), id)
	switch {
	case err == services.ErrNotFound:
		writeError(w, http.StatusNotFound, "Event not found")
		return
	case err != nil:
		log.Error().Err(err).Int64("event_id", id).Msg("Failed to get event")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"event": event})
}

// Update handles PUT /api/events/{id}.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing authorization token")
		return
	}
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	input := h.decodeEventInput(w, r)
	if input == nil {
		return
	}

	event, err := h.service.Update(r.Context(), claims, id, *input)
	if !h.writeMutationError(w, err, id) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Event updated successfully",
		"event":   event,
	})
}

// Delete handles DELETE /api/events/{id}.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing authorization token")
		return
	}
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	err := h.service.Delete(r.Context(), claims, id)
	if !h.writeMutationError(w, err, id) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Event deleted successfully"})
}

// writeMutationError maps update/delete failures. Returns true when the
// caller may write its success response.
func (h *EventHandler) writeMutationError(w http.ResponseWriter, err error, id int64) bool {
	switch {
	case err == nil:
		return true
	case err == services.ErrNotFound:
		writeError(w, http.StatusNotFound, "Event not found")
	case err == services.ErrForbidden:
		writeError(w, http.StatusForbidden, "Forbidden")
	case err == services.ErrInvalidReference:
		writeError(w, http.StatusBadRequest, "Unknown club or category")
	default:
		log.Error().Err(err).Int64("event_id", id).Msg("Failed to mutate event")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
	return false
}

func eventID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid event ID")
		return 0, false
	}
	return id, true
}

func nilIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

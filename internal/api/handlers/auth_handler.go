package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/eventix/eventix-be/internal/auth"
	"github.com/eventix/eventix-be/internal/services"
)

// AuthHandler handles signup, login and identity routes for all three actor
// kinds.
type AuthHandler struct {
	service  services.AuthServiceProvider
	validate *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.AuthServiceProvider) *AuthHandler {
	return &AuthHandler{service: service, validate: newValidator()}
}

// SignupPayload defines the structure for user registration requests.
type SignupPayload struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Email       string  `json:"email" validate:"required,email,max=255"`
	Password    string  `json:"password" validate:"required,min=8,max=128"`
	Phone       *string `json:"phone" validate:"omitempty,max=20"`
	Department  *string `json:"department" validate:"omitempty,max=100"`
	YearOfStudy *int    `json:"year_of_study" validate:"omitempty,min=1,max=6"`
}

// LoginPayload defines the structure for login requests. The optional "as"
// discriminator selects the club table instead of the default
// superadmin-then-user resolution order.
type LoginPayload struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	As       string `json:"as" validate:"omitempty,oneof=user club"`
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload SignupPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		writeValidationError(w, err)
		return
	}

	user, token, err := h.service.Signup(r.Context(), services.SignupParams{
		Name:        payload.Name,
		Email:       payload.Email,
		Password:    payload.Password,
		Phone:       payload.Phone,
		Department:  payload.Department,
		YearOfStudy: payload.YearOfStudy,
	})
	switch {
	case err == services.ErrEmailTaken:
		writeError(w, http.StatusConflict, "Email already in use")
		return
	case err != nil:
		log.Error().Err(err).Str("email", payload.Email).Msg("Signup failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user":  user,
		"token": token,
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		writeValidationError(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), payload.Email, payload.Password, payload.As)
	switch {
	case err == services.ErrInvalidCredentials:
		// One message for unknown email, malformed hash and wrong password.
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	case err != nil:
		log.Error().Err(err).Msg("Login failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, actorEnvelope(result, true))
}

// Me handles GET /api/auth/me: re-fetches the canonical record behind the
// token's claims.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing authorization token")
		return
	}

	result, err := h.service.Me(r.Context(), claims)
	switch {
	case err == services.ErrNotFound:
		// Tokens are not invalidated by deletion; the row can be gone.
		writeError(w, http.StatusNotFound, notFoundMessage(claims.Role))
		return
	case err != nil:
		log.Error().Err(err).Int64("actor_id", claims.ActorID).Str("role", claims.Role).Msg("Me lookup failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, actorEnvelope(result, false))
}

// Check handles GET /api/auth/check: a debug endpoint echoing the decoded
// claims. Not for hardened deployments.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing authorization token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"payload": claims})
}

// actorEnvelope keys the response body by the resolved actor kind.
func actorEnvelope(result *services.LoginResult, includeToken bool) map[string]any {
	body := map[string]any{}
	switch result.Role {
	case auth.RoleClub:
		body["club"] = result.Club
	case auth.RoleSuperAdmin:
		body["superadmin"] = result.SuperAdmin
	default:
		body["user"] = result.User
	}
	if includeToken {
		body["token"] = result.Token
	}
	return body
}

func notFoundMessage(role string) string {
	switch role {
	case auth.RoleClub:
		return "Club not found"
	case auth.RoleSuperAdmin:
		return "Superadmin not found"
	default:
		return "User not found"
	}
}

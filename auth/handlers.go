package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/user/chirper-go/apperror"
)

// Service is the surface the auth handlers need. It is satisfied by
// *AuthService and by test doubles.
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*User, string, error)
	Login(ctx context.Context, req LoginRequest) (*User, string, error)
}

// Handlers exposes the auth service over HTTP and owns the session cookie.
type Handlers struct {
	service    Service
	validate   *validator.Validate
	sessionTTL time.Duration
}

// NewHandlers creates auth handlers. sessionTTL bounds the cookie MaxAge and
// should match the token TTL the service signs with.
func NewHandlers(service Service, sessionTTL time.Duration) *Handlers {
	return &Handlers{
		service:    service,
		validate:   validator.New(),
		sessionTTL: sessionTTL,
	}
}

// HandleSignup godoc
// @Summary Sign up
// @Description Creates a user, sets the session cookie and returns the public user fields.
// @Tags auth
// @Accept json
// @Produce json
// @Param signupBody body auth.SignupRequest true "Signup details"
// @Success 200 {object} auth.User
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 409 {object} apperror.ErrorResponse
// @Router /auth/signup [post]
func (h *Handlers) HandleSignup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if err := h.validate.Struct(req); err != nil {
			WriteError(w, r, apperror.NewValidationError(validationMessage(err), err))
			return
		}

		user, token, err := h.service.Signup(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		h.setSessionCookie(w, token)
		WriteJSON(w, http.StatusOK, user)
	}
}

// HandleLogin godoc
// @Summary Log in
// @Description Verifies credentials, sets the session cookie and returns the public user fields.
// @Tags auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "Login credentials"
// @Success 200 {object} auth.User
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Router /auth/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if err := h.validate.Struct(req); err != nil {
			WriteError(w, r, apperror.NewValidationError(validationMessage(err), err))
			return
		}

		user, token, err := h.service.Login(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		h.setSessionCookie(w, token)
		WriteJSON(w, http.StatusOK, user)
	}
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(h.sessionTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// validationMessage flattens a validator error into a single client-facing line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return field + " is required"
		case "min":
			return field + " is too short"
		default:
			return field + " is invalid"
		}
	}
	return "invalid request"
}

// WriteJSON serializes data with the given status. A nil payload writes no body.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}

// WriteError renders any error as the standard JSON error body. Errors that
// are not AppErrors become opaque 500s so internals never leak.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}
	WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
}

package users

import (
	"context"
	"net/http"

	"github.com/user/chirper-go/apperror"
	"github.com/user/chirper-go/auth"
)

// Service is the subset of UserService the handlers need.
type Service interface {
	GetProfile(ctx context.Context, userID int64) (*auth.User, error)
}

// Handlers holds the HTTP handlers for the users endpoints.
type Handlers struct {
	service Service
}

// NewHandlers creates user handlers backed by the given service.
func NewHandlers(service Service) *Handlers {
	return &Handlers{service: service}
}

// HandleMe returns the authenticated user's profile.
//
// @Summary Current user profile
// @Description Returns the profile of the user identified by the session token
// @Tags users
// @Produce json
// @Success 200 {object} auth.User
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /users/me [get]
func (h *Handlers) HandleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("missing session token", nil))
			return
		}

		user, err := h.service.GetProfile(r.Context(), userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, user)
	}
}

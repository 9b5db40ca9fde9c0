package comments

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/user/chirper-go/apperror"
	"github.com/user/chirper-go/auth"
)

// Service is the surface the comment handlers need.
type Service interface {
	Insert(ctx context.Context, userID int64, req CreateCommentRequest) (*Comment, error)
	Remove(ctx context.Context, id, userID int64) (*Comment, error)
}

// Handler exposes the comment service over HTTP. All comment routes are
// authenticated, so RegisterRoutes is expected to be mounted behind the
// session middleware.
type Handler struct {
	service  Service
	validate *validator.Validate
}

// NewHandler creates a new comment Handler.
func NewHandler(service Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

// RegisterRoutes mounts the comment routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Delete("/{id}", h.Delete)
}

// Create godoc
// @Summary Post a comment on a tweet
// @Tags comments
// @Accept json
// @Produce json
// @Param commentBody body comments.CreateCommentRequest true "Comment to create"
// @Success 200 {object} comments.Comment
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Security SessionCookie
// @Router /comments [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("missing session", nil))
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(req); err != nil {
		auth.WriteError(w, r, apperror.NewValidationError("tweet and comment are required", err))
		return
	}

	comment, err := h.service.Insert(r.Context(), userID, req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, comment)
}

// Delete godoc
// @Summary Delete a comment
// @Tags comments
// @Produce json
// @Param id path int true "Comment id"
// @Success 200 {object} comments.Comment
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Security SessionCookie
// @Router /comments/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("missing session", nil))
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid comment id", nil))
		return
	}

	comment, err := h.service.Remove(r.Context(), id, userID)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, comment)
}

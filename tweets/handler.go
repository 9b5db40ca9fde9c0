package tweets

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

// Service is the surface the tweet handlers need. It is satisfied by
// *TweetService and by test doubles.
type Service interface {
	Insert(ctx context.Context, userID int64, req CreateTweetRequest) (*Tweet, error)
	FindTweets(ctx context.Context) ([]Tweet, error)
	FindByID(ctx context.Context, id int64) (*TweetWithComments, error)
	Patch(ctx context.Context, id, userID int64, caption string) (*Tweet, error)
	Remove(ctx context.Context, id, userID int64) (*Tweet, error)
	MostCommented(ctx context.Context, limit int) ([]Tweet, error)
}

// Handler exposes the tweet service over HTTP.
type Handler struct {
	service  Service
	validate *validator.Validate
}

// NewHandler creates a new tweet Handler.
func NewHandler(service Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

// RegisterRoutes mounts the tweet routes. Reads are public; mutations run
// behind the session middleware. "/popular" must be registered alongside
// "/{id}" — chi matches the static segment first.
func (h *Handler) RegisterRoutes(r chi.Router, sessionMW func(http.Handler) http.Handler) {
	r.Get("/", h.List)
	r.Get("/popular", h.Popular)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(sessionMW)
		r.Post("/", h.Create)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// Create godoc
// @Summary Post a tweet
// @Tags tweets
// @Accept json
// @Produce json
// @Param tweetBody body tweets.CreateTweetRequest true "Tweet to create"
// @Success 200 {object} tweets.Tweet
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Security SessionCookie
// @Router /tweets [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("missing session", nil))
		return
	}

	var req CreateTweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
		return
	}
	defer r.Body.Close()

	tweet, err := h.service.Insert(r.Context(), userID, req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, tweet)
}

// List godoc
// @Summary List all tweets in insertion order
// @Tags tweets
// @Produce json
// @Success 200 {array} tweets.Tweet
// @Router /tweets [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.FindTweets(r.Context())
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, all)
}

// Popular godoc
// @Summary List tweets ranked by comment count
// @Tags tweets
// @Produce json
// @Param limit query int false "Maximum rows to return (default 10)"
// @Success 200 {array} tweets.Tweet
// @Router /tweets/popular [get]
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	limit := DefaultPopularLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			auth.WriteError(w, r, apperror.NewBadRequestError("limit must be a positive integer", nil))
			return
		}
		limit = parsed
	}

	popular, err := h.service.MostCommented(r.Context(), limit)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, popular)
}

// Get godoc
// @Summary Get a tweet with its comments
// @Tags tweets
// @Produce json
// @Param id path int true "Tweet id"
// @Success 200 {object} tweets.TweetWithComments
// @Failure 404 {object} apperror.ErrorResponse
// @Router /tweets/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := tweetID(w, r)
	if !ok {
		return
	}
	tweet, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, tweet)
}

// Update godoc
// @Summary Update a tweet's caption
// @Tags tweets
// @Accept json
// @Produce json
// @Param id path int true "Tweet id"
// @Param patchBody body tweets.PatchTweetRequest true "New caption"
// @Success 200 {object} tweets.Tweet
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Security SessionCookie
// @Router /tweets/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("missing session", nil))
		return
	}
	id, ok := tweetID(w, r)
	if !ok {
		return
	}

	var req PatchTweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(req); err != nil {
		auth.WriteError(w, r, apperror.NewValidationError("caption is required", err))
		return
	}

	tweet, err := h.service.Patch(r.Context(), id, userID, req.Caption)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, tweet)
}

// Delete godoc
// @Summary Delete a tweet
// @Tags tweets
// @Produce json
// @Param id path int true "Tweet id"
// @Success 200 {object} tweets.Tweet
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Security SessionCookie
// @Router /tweets/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("missing session", nil))
		return
	}
	id, ok := tweetID(w, r)
	if !ok {
		return
	}

	tweet, err := h.service.Remove(r.Context(), id, userID)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, tweet)
}

// tweetID parses the {id} path parameter, writing a 400 on malformed input.
func tweetID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid tweet id", nil))
		return 0, false
	}
	return id, true
}

package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  *AppError
		want int
	}{
		{"auth", NewAuthError("invalid credentials", nil), http.StatusUnauthorized},
		{"unauthorized", NewUnauthorizedError("not your tweet", nil), http.StatusForbidden},
		{"not found", NewNotFoundError("tweet not found", nil), http.StatusNotFound},
		{"validation", NewValidationError("email is required", nil), http.StatusBadRequest},
		{"bad request", NewBadRequestError("invalid body", nil), http.StatusBadRequest},
		{"conflict", NewConflictError("email already exists", nil), http.StatusConflict},
		{"database", NewDatabaseError("query failed", nil), http.StatusInternalServerError},
		{"internal", NewInternalError("boom", nil), http.StatusInternalServerError},
		{"unknown", NewAppError(UnknownError, "??", nil), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.StatusCode())
		})
	}
}

func TestErrorAndUnwrap(t *testing.T) {
	underlying := errors.New("connection refused")
	err := NewDatabaseError("query failed", underlying)

	assert.Equal(t, "query failed: connection refused", err.Error())
	require.ErrorIs(t, err, underlying)

	bare := NewNotFoundError("tweet not found", nil)
	assert.Equal(t, "tweet not found", bare.Error())
	assert.Nil(t, bare.Unwrap())
}

func TestToResponseHidesUnderlying(t *testing.T) {
	err := NewInternalError("an unexpected error occurred", errors.New("pq: secret detail"))
	resp := err.ToResponse()
	assert.Equal(t, "an unexpected error occurred", resp.Error)
	assert.NotContains(t, resp.Error, "secret")
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handling request: %w", NewNotFoundError("comment not found", nil))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsAuthError(wrapped))

	appErr, ok := FromError(wrapped)
	require.True(t, ok)
	assert.Equal(t, NotFoundError, appErr.Type)

	_, ok = FromError(errors.New("plain"))
	assert.False(t, ok)
	_, ok = FromError(nil)
	assert.False(t, ok)
}

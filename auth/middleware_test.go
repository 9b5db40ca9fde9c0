package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/chirper-go/config"
)

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		Secret:     testSecret,
		SessionTTL: 24 * time.Hour,
	}
}

// echoUserID is the protected handler used in middleware tests: it reports
// the user id the middleware put into the context.
func echoUserID(t *testing.T, gotUserID *int64) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		require.True(t, ok)
		*gotUserID = id
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionMiddlewareAcceptsCookie(t *testing.T) {
	token, err := IssueSessionToken(testSecret, time.Hour, testUser())
	require.NoError(t, err)

	var gotUserID int64
	handler := SessionMiddleware(testAuthConfig())(echoUserID(t, &gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), gotUserID)
}

func TestSessionMiddlewareAcceptsBearerFallback(t *testing.T) {
	token, err := IssueSessionToken(testSecret, time.Hour, testUser())
	require.NoError(t, err)

	var gotUserID int64
	handler := SessionMiddleware(testAuthConfig())(echoUserID(t, &gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), gotUserID)
}

func TestSessionMiddlewareRejectsMissingToken(t *testing.T) {
	handler := SessionMiddleware(testAuthConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a session")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"missing session token"}`, rec.Body.String())
}

func TestSessionMiddlewareRejectsExpiredToken(t *testing.T) {
	token, err := IssueSessionToken(testSecret, -time.Minute, testUser())
	require.NoError(t, err)

	handler := SessionMiddleware(testAuthConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an expired session")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionMiddlewareRejectsTamperedToken(t *testing.T) {
	token, err := IssueSessionToken("other-secret", time.Hour, testUser())
	require.NoError(t, err)

	handler := SessionMiddleware(testAuthConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a foreign signature")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

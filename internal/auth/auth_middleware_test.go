package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTAccessTokenMiddleware(t *testing.T) {
	users, service := newAuthFixture()
	users.addUser(t, "user-1", "someone@example.com", "correct-password")

	manager := NewJWTManager("test-secret")
	token, err := manager.GenerateAccessJWT("user-1", time.Minute)
	require.NoError(t, err)

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = r.Context().Value("userID").(string)
		w.WriteHeader(http.StatusOK)
	})
	protected := service.JWTAccessTokenMiddleware()(next)

	req := httptest.NewRequest(http.MethodGet, "/api/protected/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	assert.Equal(t, "user-1", gotUserID)
}

func TestJWTAccessTokenMiddleware_Rejections(t *testing.T) {
	users, service := newAuthFixture()
	users.addUser(t, "user-1", "someone@example.com", "correct-password")

	manager := NewJWTManager("test-secret")
	expired, err := manager.GenerateAccessJWT("user-1", -time.Minute)
	require.NoError(t, err)
	forUnknownUser, err := manager.GenerateAccessJWT("ghost", time.Minute)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not.a.token"},
		{"expired token", "Bearer " + expired},
		{"unknown user", "Bearer " + forUnknownUser},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler must not run for a rejected request")
	})
	protected := service.JWTAccessTokenMiddleware()(next)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/protected/profile", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			protected.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
		})
	}
}

func TestJWTRefreshTokenMiddleware(t *testing.T) {
	users, service := newAuthFixture()
	u := users.addUser(t, "user-1", "someone@example.com", "correct-password")

	manager := NewJWTManager("test-secret")
	refresh, err := manager.GenerateRefreshJWT("user-1", u.HashToken, time.Hour)
	require.NoError(t, err)

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = r.Context().Value("userID").(string)
		w.WriteHeader(http.StatusOK)
	})
	protected := service.JWTRefreshTokenMiddleware()(next)

	req := httptest.NewRequest(http.MethodPut, "/api/refresh/token", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: refresh})
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	assert.Equal(t, "user-1", gotUserID)
}

func TestJWTRefreshTokenMiddleware_RevokedAfterRotation(t *testing.T) {
	users, service := newAuthFixture()
	u := users.addUser(t, "user-1", "someone@example.com", "correct-password")

	manager := NewJWTManager("test-secret")
	refresh, err := manager.GenerateRefreshJWT("user-1", u.HashToken, time.Hour)
	require.NoError(t, err)

	// Rotate the hash token, as a password change would.
	u.HashToken = "rotated"

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler must not run with a revoked refresh token")
	})
	protected := service.JWTRefreshTokenMiddleware()(next)

	req := httptest.NewRequest(http.MethodPut, "/api/refresh/token", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: refresh})
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
}

func TestJWTRefreshTokenMiddleware_MissingCookie(t *testing.T) {
	_, service := newAuthFixture()

	protected := service.JWTRefreshTokenMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler must not run without a refresh cookie")
	}))

	req := httptest.NewRequest(http.MethodPut, "/api/refresh/token", nil)
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
}

func TestAdminCodeMiddleware(t *testing.T) {
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusCreated)
	})
	guarded := AdminCodeMiddleware("super-secret")(next)

	req := httptest.NewRequest(http.MethodPost, "/api/register", nil)
	req.Header.Set("X-Admin-Code", "super-secret")
	w := httptest.NewRecorder()
	guarded.ServeHTTP(w, req)
	assert.True(t, called)
	assert.Equal(t, http.StatusCreated, w.Result().StatusCode)

	for _, code := range []string{"", "wrong"} {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/api/register", nil)
		if code != "" {
			req.Header.Set("X-Admin-Code", code)
		}
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, req)
		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
	}
}

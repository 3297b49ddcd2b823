package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbraun/myflix-be/internal/models"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	Init("test-secret", time.Hour)

	user := models.User{ID: "id-1", Username: "abcde"}
	token, err := GenerateJWT(user)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "id-1", claims.UserID)
	assert.Equal(t, "abcde", claims.Username)
	assert.Equal(t, "abcde", claims.Subject)
}

func TestValidateJWTGarbage(t *testing.T) {
	Init("test-secret", time.Hour)

	_, err := ValidateJWT("not.a.token")
	assert.Error(t, err)
}

func TestValidateJWTExpired(t *testing.T) {
	Init("test-secret", -time.Minute)

	token, err := GenerateJWT(models.User{ID: "id-1", Username: "abcde"})
	require.NoError(t, err)

	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestJWTMiddleware(t *testing.T) {
	Init("test-secret", time.Hour)

	var gotClaims *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := JWTMiddleware()(next)

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bearer token accepted", func(t *testing.T) {
		token, err := GenerateJWT(models.User{ID: "id-1", Username: "abcde"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotClaims)
		assert.Equal(t, "abcde", gotClaims.Username)
	})

	t.Run("cookie fallback", func(t *testing.T) {
		token, err := GenerateJWT(models.User{ID: "id-1", Username: "abcde"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireSelf(t *testing.T) {
	Init("test-secret", time.Hour)

	r := chi.NewRouter()
	r.Use(JWTMiddleware())
	r.With(RequireSelf).Delete("/users/{username}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	token, err := GenerateJWT(models.User{ID: "id-1", Username: "abcde"})
	require.NoError(t, err)

	t.Run("own account allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/users/abcde", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("other account forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/users/fghij", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bizline/backoffice/internal/domain/identity"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/bizline/backoffice/internal/infrastructure/auth"
	"github.com/bizline/backoffice/internal/infrastructure/config"
	"github.com/bizline/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: expiration,
		Issuer:                "test-issuer",
	})
}

func newTestUser(role identity.Role, lines ...uuid.UUID) *identity.User {
	if lines == nil {
		lines = []uuid.UUID{}
	}
	return &identity.User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          "tester",
		Role:              role,
		BusinessLineIDs:   lines,
		Status:            identity.UserStatusActive,
	}
}

func issueToken(t *testing.T, svc *auth.JWTService, user *identity.User) string {
	t.Helper()
	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	return token.AccessToken
}

func newJWTRouter(svc *auth.JWTService) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), JWTAuth(JWTConfig{Validator: svc, SkipPaths: DefaultJWTSkipPaths()}))
	router.GET("/api/v1/me", func(c *gin.Context) {
		id, ok := GetUserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id.String())
	})
	router.POST("/api/v1/auth/login", func(c *gin.Context) { c.String(http.StatusOK, "public") })
	return router
}

func TestJWTAuth(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	router := newJWTRouter(svc)

	t.Run("valid token", func(t *testing.T) {
		user := newTestUser(identity.RoleSales)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, svc, user))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, user.ID.String(), w.Body.String())
	})

	t.Run("skip path", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"wrong scheme", "Basic abc", dto.ErrCodeTokenInvalid},
		{"empty bearer", BearerPrefix, dto.ErrCodeTokenInvalid},
		{"garbage token", BearerPrefix + "not.a.token", dto.ErrCodeTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}

	t.Run("expired token", func(t *testing.T) {
		expired := newTestJWTService(-time.Minute)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, expired, newTestUser(identity.RoleSales)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenExpired, decodeResponse(t, w).Error.Code)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := auth.NewJWTService(config.JWTConfig{
			Secret:                "another-secret-key-of-32-characters",
			AccessTokenExpiration: time.Minute,
			Issuer:                "test-issuer",
		})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, other, newTestUser(identity.RoleSales)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, dto.ErrCodeTokenInvalid, decodeResponse(t, w).Error.Code)
	})
}

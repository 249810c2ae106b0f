package middleware

import (
	"errors"
	"strings"

	"github.com/bizline/backoffice/internal/infrastructure/auth"
	"github.com/bizline/backoffice/internal/infrastructure/logger"
	"github.com/bizline/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// TokenValidator validates access tokens. Implemented by *auth.JWTService.
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*auth.Claims, error)
}

// JWTConfig holds configuration for the JWT middleware
type JWTConfig struct {
	Validator TokenValidator
	// SkipPaths are exact paths served without a token
	SkipPaths []string
	Logger    *zap.Logger
}

// DefaultJWTSkipPaths lists the public endpoints
func DefaultJWTSkipPaths() []string {
	return []string{"/health", "/api/v1/health", "/api/v1/auth/login"}
}

// JWTAuth authenticates the bearer token and stores its claims in the context
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			denyToken(c, log, dto.ErrCodeUnauthorized, "Missing authorization header", nil)
			return
		}
		token, found := strings.CutPrefix(header, BearerPrefix)
		if !found || token == "" {
			denyToken(c, log, dto.ErrCodeTokenInvalid, "Invalid authorization header format", nil)
			return
		}

		claims, err := cfg.Validator.ValidateAccessToken(token)
		if err != nil {
			code, message := tokenError(err)
			denyToken(c, log, code, message, err)
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(logger.GinUserIDKey, claims.UserID)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

func denyToken(c *gin.Context, log *zap.Logger, code, message string, err error) {
	log.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("code", code),
		zap.String("path", c.Request.URL.Path),
	)
	abortWithError(c, code, message)
}

func tokenError(err error) (string, string) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		return dto.ErrCodeTokenInvalid, "Token is not yet valid"
	case errors.Is(err, auth.ErrInvalidTokenType):
		return dto.ErrCodeTokenInvalid, "Invalid token type"
	default:
		return dto.ErrCodeTokenInvalid, "Invalid token"
	}
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetUserID returns the authenticated user's id
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	claims := GetJWTClaims(c)
	if claims == nil {
		return uuid.Nil, false
	}
	id, err := claims.GetUserUUID()
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/bizline/backoffice/internal/domain/businessline"
	"github.com/bizline/backoffice/internal/domain/identity"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/bizline/backoffice/internal/infrastructure/logger"
	"github.com/bizline/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BusinessLineIDKey holds the active business line in the gin context
const BusinessLineIDKey = "business_line"

// BusinessLineFinder loads a business line. Implemented by businessline.Repository.
type BusinessLineFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*businessline.BusinessLine, error)
}

// BusinessLineScope resolves the X-Business-Line-ID header into the active business line.
// The caller must be allowed to work in the line, and writes to an inactive line are refused.
func BusinessLineScope(finder BusinessLineFinder, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		raw := c.GetHeader(BusinessLineHeader)
		if raw == "" {
			abortWithError(c, dto.ErrCodeBusinessLineRequired, "Header "+BusinessLineHeader+" is required")
			return
		}
		lineID, err := uuid.Parse(raw)
		if err != nil {
			abortWithError(c, dto.ErrCodeBusinessLineRequired, "Header "+BusinessLineHeader+" must be a UUID")
			return
		}

		claims := GetJWTClaims(c)
		if claims == nil {
			abortWithError(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if claims.GetRole() != identity.RoleAdmin {
			allowed, err := claims.GetBusinessLineUUIDs()
			if err != nil || !slices.Contains(allowed, lineID) {
				abortWithError(c, dto.ErrCodeForbidden, "You have no access to this business line")
				return
			}
		}

		line, err := finder.FindByID(c.Request.Context(), lineID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				abortWithError(c, dto.ErrCodeNotFound, "Business line not found")
				return
			}
			log.Error("Failed to load business line", zap.String("business_line_id", raw), zap.Error(err))
			abortWithError(c, dto.ErrCodeInternal, "An unexpected error occurred")
			return
		}
		if !line.IsActive() && !isReadOnly(c.Request.Method) {
			abortWithError(c, dto.ErrCodeBusinessLineInactive, "Business line "+line.Code+" is inactive")
			return
		}

		c.Set(BusinessLineIDKey, lineID)
		c.Set(logger.GinBusinessLineIDKey, raw)
		c.Request = c.Request.WithContext(logger.WithBusinessLineID(c.Request.Context(), raw))
		c.Next()
	}
}

// GetBusinessLineID returns the business line resolved by BusinessLineScope
func GetBusinessLineID(c *gin.Context) (uuid.UUID, bool) {
	if v, ok := c.Get(BusinessLineIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}

func isReadOnly(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

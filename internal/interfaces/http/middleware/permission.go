package middleware

import (
	"net/http"

	"github.com/bizline/backoffice/internal/domain/identity"
	"github.com/bizline/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RequirePermission allows the request when the caller's role grants resource:action
func RequirePermission(resource, action string) gin.HandlerFunc {
	permission := identity.Permission(resource, action)
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abortWithError(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if !claims.HasPermission(permission) {
			abortWithError(c, dto.ErrCodeForbidden, "Missing permission "+permission)
			return
		}
		c.Next()
	}
}

// RequireResource derives the action from the HTTP method:
// GET/HEAD read, POST create, PUT/PATCH update, DELETE delete.
func RequireResource(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		RequirePermission(resource, methodToAction(c.Request.Method))(c)
	}
}

// RequireRole allows only the listed roles
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abortWithError(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		role := claims.GetRole()
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		abortWithError(c, dto.ErrCodeForbidden, "Role "+role.String()+" cannot perform this action")
	}
}

func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead:
		return identity.ActionRead
	case http.MethodPost:
		return identity.ActionCreate
	case http.MethodPut, http.MethodPatch:
		return identity.ActionUpdate
	case http.MethodDelete:
		return identity.ActionDelete
	default:
		return identity.ActionRead
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hr-backend/services"
	"hr-backend/utils"
)

const actorKey = "actor"

// RequireAuth validates the Bearer token and stores the authenticated
// actor in the request context.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "Missing or malformed Authorization header")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(actorKey, &services.Actor{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		})
		c.Next()
	}
}

// RequireRoles allows the request through only for the listed roles.
// Must run after RequireAuth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFromContext(c)
		if actor == nil {
			utils.JSONError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		utils.JSONError(c, http.StatusForbidden, "Insufficient permissions")
		c.Abort()
	}
}

// ActorFromContext returns the authenticated actor, or nil on
// unauthenticated requests.
func ActorFromContext(c *gin.Context) *services.Actor {
	value, exists := c.Get(actorKey)
	if !exists {
		return nil
	}
	actor, ok := value.(*services.Actor)
	if !ok {
		return nil
	}
	return actor
}

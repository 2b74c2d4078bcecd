package middleware

import (
	"net/http"
	"time"

	"edustream-app/internal/domain/entitlement"

	"github.com/gin-gonic/gin"
)

// RequireEntitlement gates playback routes on the effective identity's access
// at this instant. Evaluated per request; expiry is time-dependent, so the
// answer is never cached.
func RequireEntitlement() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := CurrentSession(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		effective := sess.Effective()
		if !entitlement.HasAccess(&effective, time.Now()) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "An active subscription or trial is required to watch this content",
			})
			return
		}

		c.Next()
	}
}

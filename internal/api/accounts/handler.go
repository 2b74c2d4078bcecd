package accounts

import (
	"net/http"
	"time"

	"edustream-app/internal/app/http/middleware"
	"edustream-app/internal/domain/entitlement"

	"github.com/gin-gonic/gin"
)

// GetCurrentUser returns the dashboard view of whoever the caller currently
// *is*: the effective identity. While impersonating, that is the target
// account, and the impersonating block tells the UI to show the banner.
func GetCurrentUser(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	effective := sess.Effective()
	snapshot := entitlement.Evaluate(&effective, time.Now())

	c.JSON(http.StatusOK, MeResponse{
		Account:       toAccountDTO(effective),
		Access:        toAccessDTO(snapshot),
		Impersonating: toImpersonationDTO(sess),
	})
}

// GetSession exposes both halves of the overlay: the real identity is never
// lost while impersonating, and the client needs it to label the banner.
func GetSession(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		Real:          toAccountDTO(sess.Real()),
		Impersonating: toImpersonationDTO(sess),
	})
}

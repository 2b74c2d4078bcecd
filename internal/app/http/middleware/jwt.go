package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"edustream-app/config"
	"edustream-app/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const sessionKey = "session"

// AuthMiddleware validates the bearer token and resolves the caller's session,
// including the impersonation overlay. A token whose principal has no account
// record is a corrupt session: it is signed out server-side and rejected.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		principalID, email, ok := parseBearer(c)
		if !ok {
			return
		}

		sess, err := session.Sessions.Resolve(c.Request.Context(), principalID)
		if errors.Is(err, session.ErrAccountMissing) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session is no longer valid, please sign in again"})
			c.Abort()
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve session"})
			c.Abort()
			return
		}

		c.Set(sessionKey, sess)
		c.Set("principal_id", principalID)
		c.Set("email", email)
		c.Next()
	}
}

// OptionalAuth resolves a session when a valid token is present and continues
// anonymously otherwise. Used on catalogue endpoints, which are public but
// personalize the playback gate.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := parseToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		principalID, _ := claims["principal_id"].(string)
		if principalID == "" {
			c.Next()
			return
		}

		sess, err := session.Sessions.Resolve(c.Request.Context(), principalID)
		if err != nil {
			c.Next()
			return
		}

		c.Set(sessionKey, sess)
		c.Set("principal_id", principalID)
		c.Next()
	}
}

// RequireRole guards on the *real* identity's role, not the effective one, so
// an impersonating admin keeps admin surfaces (and can always stop the
// overlay). The check is a local guard; the store's own rules remain the
// security boundary.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := CurrentSession(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		if sess.Real().Role != role {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentSession returns the resolved session for an authenticated request.
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	value, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	sess, ok := value.(*session.Session)
	return sess, ok
}

func parseBearer(c *gin.Context) (principalID, email string, ok bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
		c.Abort()
		return "", "", false
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Bearer token malformed"})
		c.Abort()
		return "", "", false
	}

	claims, err := parseToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		c.Abort()
		return "", "", false
	}

	principalID, _ = claims["principal_id"].(string)
	email, _ = claims["email"].(string)
	if principalID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		c.Abort()
		return "", "", false
	}
	return principalID, email, true
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.JWT_SECRET), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

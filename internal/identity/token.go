package identity

import (
	"time"

	"edustream-app/config"

	"github.com/golang-jwt/jwt/v5"
)

// IssueToken signs the app JWT carried by the frontend. Role comes from the
// account record, not the credential row.
func IssueToken(principalID, email, role string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"principal_id": principalID,
		"email":        email,
		"role":         role,
		"exp":          time.Now().Add(24 * time.Hour).Unix(),
	})
	return t.SignedString([]byte(config.JWT_SECRET))
}

package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pawkit-ai/pawkit-backend/common"
)

// ContextUserID is the gin context key under which AuthRequired stores the
// authenticated caller's user id.
const ContextUserID = "user_id"

// WatchdogSecretHeader carries the shared secret for service-to-service calls
// to the watchdog sweep endpoint.
const WatchdogSecretHeader = "X-Watchdog-Secret"

// AuthRequired validates a Bearer JWT (HS256) and stores the subject claim as
// the caller's user id. Requests without a valid token are rejected with 401.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseBearer(c, secret)
		if !ok {
			c.Error(common.Errf(http.StatusUnauthorized, "missing or invalid bearer token"))
			c.Abort()
			return
		}
		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// SweepAuth admits either a service caller presenting the shared watchdog
// secret or an authenticated end user. The secret path exists so schedulers
// can hit the sweep endpoint without a user identity.
func SweepAuth(jwtSecret, sweepSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sweepSecret != "" {
			got := c.GetHeader(WatchdogSecretHeader)
			if got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(sweepSecret)) == 1 {
				c.Next()
				return
			}
		}
		if userID, ok := parseBearer(c, jwtSecret); ok {
			c.Set(ContextUserID, userID)
			c.Next()
			return
		}
		c.Error(common.Errf(http.StatusUnauthorized, "missing or invalid credentials"))
		c.Abort()
	}
}

func parseBearer(c *gin.Context, secret string) (string, bool) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return "", false
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}

// CallerID returns the authenticated user id set by AuthRequired.
func CallerID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

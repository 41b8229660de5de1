package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TokenVerifier checks an admin token taken from the URL.
type TokenVerifier func(token string) error

// AdminToken guards routes mounted under /:token. Any verification failure
// (malformed, bad signature, expired, wrong role) yields the same 403 so the
// reason is not disclosed to the caller; it is logged instead.
func AdminToken(verify TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := verify(c.Param("token")); err != nil {
			LoggerFrom(c).Warn().Err(err).Msg("admin token rejected")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"request_id": RequestIDFrom(c),
				"code":       "forbidden",
				"message":    "access denied",
			})
			return
		}
		c.Next()
	}
}

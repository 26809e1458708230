package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"filedrive/internal/domain/auth"
)

// RequireUser lets authenticated requests through and sends anonymous ones
// to the log-in page instead of an error.
func RequireUser(gate auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := gate.Identify(c)
		if !ok {
			c.Redirect(http.StatusFound, "/log-in")
			c.Abort()
			return
		}

		auth.SetIdentity(c, id)
		c.Next()
	}
}

// api/middleware/token_auth.go

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/argus-admin/argus/api/auth"
	argus_errors "github.com/argus-admin/argus/api/errors"
	logger "github.com/argus-admin/argus/api/logging"
	"github.com/argus-admin/argus/api/util"
)

// TokenAuth resolves the bearer token to a session and installs the
// principal on the request context. Requests without a valid token get a
// 401 envelope and never reach the handlers.
func TokenAuth(sessions *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			reject(c, "No Authorization token provided")
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		session, principal, err := sessions.Validate(c.Request.Context(), tokenString)
		if err != nil {
			switch {
			case errors.Is(err, argus_errors.ErrTokenExpired):
				reject(c, "Token has expired")
			case errors.Is(err, argus_errors.ErrEmptyRoleSet):
				reject(c, "Account has no roles assigned")
			case errors.Is(err, argus_errors.ErrAccountDisabled):
				reject(c, "Account is disabled")
			default:
				reject(c, "Unauthorized")
			}
			return
		}

		c.Set("session", session)
		c.Set("principal", principal)
		c.Set("token", tokenString)
		c.Next()
	}
}

func reject(c *gin.Context, message string) {
	logger.Warn("Request rejected",
		zap.String("path", c.Request.URL.Path),
		zap.String("reason", message))
	c.JSON(http.StatusUnauthorized, util.Envelope{Code: http.StatusUnauthorized, Msg: message})
	c.Abort()
}

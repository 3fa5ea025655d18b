// api/util/http_util.go
package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/argus-admin/argus/api/logging"
	"github.com/argus-admin/argus/api/scope"
)

// Envelope is the uniform response body. Code mirrors the HTTP status so
// clients that only look at the body stay in sync with ones that look at
// the transport status.
type Envelope struct {
	Code int         `json:"code"`
	Data interface{} `json:"data,omitempty"`
	Msg  string      `json:"msg"`
}

func RespondWithData(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Code: http.StatusOK, Data: data, Msg: "success"})
}

func RespondWithError(c *gin.Context, code int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, Envelope{Code: code, Msg: message})
}

// GetPrincipalFromContext returns the principal installed by the token
// middleware, or false for anonymous requests.
func GetPrincipalFromContext(c *gin.Context) (scope.Principal, bool) {
	value, exists := c.Get("principal")
	if !exists {
		return scope.Principal{}, false
	}
	principal, ok := value.(scope.Principal)
	return principal, ok
}

package middlewares

import (
	"strings"

	"foodorder/pkg/resp"

	"github.com/gin-gonic/gin"
)

// WSAuthMiddleware accepts the token from ?token= (browsers cannot set
// headers on websocket upgrades) or from the Authorization header.
func WSAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
				tokenStr = strings.TrimPrefix(h, "Bearer ")
			}
		}
		if tokenStr == "" {
			resp.Unauthorized(c, "missing token")
			c.Abort()
			return
		}
		authenticate(c, auth, tokenStr, nil)
	}
}

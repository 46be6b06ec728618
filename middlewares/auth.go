package middlewares

import (
	"context"
	"errors"
	"strings"

	"foodorder/entity"
	"foodorder/pkg/apperr"
	"foodorder/pkg/resp"
	"foodorder/utils"

	"github.com/gin-gonic/gin"
)

// Authenticator resolves a bearer token to the user it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}

// AuthMiddleware checks the bearer token and, when roles are given, that the
// user has one of them.
func AuthMiddleware(auth Authenticator, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			resp.Unauthorized(c, "missing or invalid token")
			c.Abort()
			return
		}
		authenticate(c, auth, strings.TrimPrefix(h, "Bearer "), requiredRoles)
	}
}

func authenticate(c *gin.Context, auth Authenticator, token string, requiredRoles []string) {
	user, err := auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthenticated) {
			resp.Unauthorized(c, "unauthorized access")
		} else {
			resp.Error(c, err)
		}
		c.Abort()
		return
	}

	c.Set(utils.CtxUserID, user.ID)
	c.Set(utils.CtxRole, user.Role)

	if len(requiredRoles) > 0 {
		allowed := false
		for _, r := range requiredRoles {
			if user.Role == r {
				allowed = true
				break
			}
		}
		if !allowed {
			resp.Forbidden(c, "forbidden")
			c.Abort()
			return
		}
	}

	c.Next()
}

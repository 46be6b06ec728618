package utils

import "github.com/gin-gonic/gin"

const (
	CtxUserID = "userId"
	CtxRole   = "role"
)

func CurrentUserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}

func CurrentRole(c *gin.Context) string {
	return c.GetString(CtxRole)
}

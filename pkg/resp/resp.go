package resp

import (
	"errors"
	"net/http"

	"foodorder/pkg/apperr"

	"github.com/gin-gonic/gin"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": data})
}
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": msg})
}
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": msg})
}
func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": msg})
}
func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": msg})
}
func Conflict(c *gin.Context, msg string) {
	c.JSON(http.StatusConflict, gin.H{"ok": false, "error": msg})
}

// Error maps a service error onto its status code. Unknown errors are
// store failures and come back as 500.
func Error(c *gin.Context, err error) {
	msg := apperr.Message(err)
	switch {
	case errors.Is(err, apperr.ErrInvalidRequest):
		BadRequest(c, msg)
	case errors.Is(err, apperr.ErrNotFound):
		NotFound(c, msg)
	case errors.Is(err, apperr.ErrUnauthenticated):
		Unauthorized(c, msg)
	case errors.Is(err, apperr.ErrForbidden):
		Forbidden(c, msg)
	case errors.Is(err, apperr.ErrConflict):
		Conflict(c, msg)
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal server error"})
	}
}

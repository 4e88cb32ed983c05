package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireUser reads the user id forwarded by the gateway in X-User-Id and
// rejects requests without one.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if uid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": gin.H{"code": "UNAUTHORIZED", "message": "missing user"}})
			c.Abort()
			return
		}
		c.Set(CtxUserID, uid)
		c.Next()
	}
}

// OptionalUser sets the user id when present without enforcing it.
// Public read endpoints use this.
func OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := strings.TrimSpace(c.GetHeader("X-User-Id")); uid != "" {
			c.Set(CtxUserID, uid)
		}
		c.Next()
	}
}

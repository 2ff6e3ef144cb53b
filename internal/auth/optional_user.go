package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// OptionalUser stores a caller id in context without a user database.
// - If X-User-Id is missing, it falls back to "demo-user".
// - Use this ONLY for development/testing.
func OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if uid == "" {
			uid = "demo-user"
		}

		c.Set(CtxFirebaseUID, uid)
		c.Set(CtxUserDBID, uid)

		c.Next()
	}
}

package handlers

import (
	"net/http"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/utils"

	"github.com/gin-gonic/gin"
)

const userIDHeader = "X-User-ID"

// RequireUser trusts the gateway-injected user header. Requests without
// it never reach a handler.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(userIDHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				utils.CreateErrorResponse("Unauthorized", "Missing user identity"))
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString("userID")
}

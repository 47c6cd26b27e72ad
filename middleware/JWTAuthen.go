package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gtdagent/services"
)

// AccessTokenMiddleware requires a valid Bearer access token signed with
// secret. The token subject is stored under "subject".
func AccessTokenMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Request.Header.Get("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}

		bearer := strings.Split(header, " ")
		if len(bearer) != 2 || bearer[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := services.ParseAccessToken(secret, bearer[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Token is expired or invalid: " + err.Error()})
			return
		}

		c.Set("claims", claims)
		c.Set("subject", claims.Subject)
		c.Next()
	}
}

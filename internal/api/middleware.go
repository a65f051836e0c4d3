package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"furnistore/internal/auth"
	"furnistore/internal/util"

	"github.com/gin-gonic/gin"
)

// prometheusMiddleware records request counts and latency.
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		util.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
	}
}

// authMiddleware verifies the bearer token and stashes the caller's
// identity in the request context.
func authMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := auth.ParseToken(jwtSecret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("isAdmin", claims.IsAdmin)
		c.Next()
	}
}

// adminMiddleware gates back-office routes. Runs after authMiddleware.
func adminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("isAdmin") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64("userID")
}

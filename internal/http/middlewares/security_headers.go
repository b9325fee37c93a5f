package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultCSP = "default-src 'none'"
	// Swagger UI page needs CDN assets + inline bootstrap script/style.
	swaggerCSP = "default-src 'self'; base-uri 'none'; frame-ancestors 'none'; object-src 'none'; connect-src 'self'; img-src 'self' data: https:; font-src 'self' https://unpkg.com data:; style-src 'self' 'unsafe-inline' https://unpkg.com; script-src 'self' 'unsafe-inline' https://unpkg.com"
)

func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("X-XSS-Protection", "0")

		switch {
		case strings.HasPrefix(path, "/docs"):
			c.Header("Content-Security-Policy", swaggerCSP)
		case strings.HasPrefix(path, "/images/"):
			// uploaded images are embedded by the frontend running on another origin
			c.Header("Content-Security-Policy", defaultCSP)
			c.Header("Cross-Origin-Resource-Policy", "cross-origin")
		default:
			c.Header("Content-Security-Policy", defaultCSP)
		}
		c.Next()
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS allows browser UIs served from the listed origins. An entry of "*"
// allows any origin; an entry ending in ":*" allows any port on that host,
// which suits local dev servers.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	exact := make(map[string]struct{}, len(allowedOrigins))
	var anyPort []string
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		if strings.HasSuffix(origin, ":*") {
			anyPort = append(anyPort, strings.TrimSuffix(origin, "*"))
			continue
		}
		exact[origin] = struct{}{}
	}
	_, allowAll := exact["*"]

	allowed := func(origin string) bool {
		if _, ok := exact[origin]; ok {
			return true
		}
		for _, prefix := range anyPort {
			if strings.HasPrefix(origin, prefix) && !strings.Contains(origin[len(prefix):], "/") {
				return true
			}
		}
		return false
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if allowAll {
				c.Header("Access-Control-Allow-Origin", "*")
			} else if allowed(origin) {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
		}

		c.Header("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

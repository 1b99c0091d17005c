package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	corsMethods = strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}, ",")
	corsHeaders = "Authorization,Content-Type,Last-Event-ID"
)

type originPolicy struct {
	any     bool
	origins map[string]struct{}
}

func newOriginPolicy(origins []string) originPolicy {
	p := originPolicy{origins: make(map[string]struct{}, len(origins))}
	for _, origin := range origins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		switch origin {
		case "":
		case "*":
			p.any = true
		default:
			p.origins[origin] = struct{}{}
		}
	}
	return p
}

// allow reports the Access-Control-Allow-Origin value for origin, if any.
func (p originPolicy) allow(origin string) (string, bool) {
	if p.any {
		return "*", true
	}
	if _, ok := p.origins[origin]; ok {
		return origin, true
	}
	return "", false
}

func CORS(allowedOrigins []string) gin.HandlerFunc {
	policy := newOriginPolicy(allowedOrigins)

	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			if value, ok := policy.allow(origin); ok {
				c.Header("Access-Control-Allow-Origin", value)
				if value != "*" {
					c.Header("Vary", "Origin")
				}
			}
		}

		if c.Request.Method != http.MethodOptions {
			c.Next()
			return
		}
		c.Header("Access-Control-Allow-Methods", corsMethods)
		c.Header("Access-Control-Allow-Headers", corsHeaders)
		c.Header("Access-Control-Max-Age", "86400")
		c.AbortWithStatus(http.StatusNoContent)
	}
}

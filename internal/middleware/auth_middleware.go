package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "tempo/backend/internal/errors"
	"tempo/backend/internal/service"
)

const SubjectContextKey = "subject"

// Auth requires a bearer token issued by authService. It lets every request
// through when authentication is disabled. EventSource clients cannot set
// headers, so the token is also accepted as the access_token query parameter.
func Auth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authService.Enabled() {
			c.Next()
			return
		}

		token, apiErr := bearerToken(c)
		if apiErr != nil {
			writeError(c, apiErr)
			return
		}

		subject, apiErr := authService.ParseToken(token)
		if apiErr != nil {
			writeError(c, apiErr)
			return
		}

		c.Set(SubjectContextKey, subject)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, *apperrors.APIError) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if token := c.Query("access_token"); token != "" {
			return token, nil
		}
		return "", apperrors.Unauthorized("missing authorization header")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", apperrors.Unauthorized("invalid authorization format")
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", apperrors.Unauthorized("invalid authorization format")
	}
	return token, nil
}

func writeError(c *gin.Context, apiErr *apperrors.APIError) {
	c.AbortWithStatusJSON(apiErr.StatusCode(), apiErr.Body())
}

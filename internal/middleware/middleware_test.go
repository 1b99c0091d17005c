package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo/backend/internal/service"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(handlers...)
	engine.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(SubjectContextKey))
	})
	return engine
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder
}

func TestCORSOrigins(t *testing.T) {
	engine := newEngine(CORS([]string{"http://app.test/", " "}))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://app.test")
	rec := serve(engine, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://app.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = serve(engine, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://app.test")
	rec = serve(engine, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
}

func TestCORSWildcard(t *testing.T) {
	engine := newEngine(CORS([]string{"*"}))
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://anything.test")
	rec := serve(engine, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Vary"))
}

func TestAuth(t *testing.T) {
	hash, err := service.HashPasscode("pass")
	require.NoError(t, err)
	authService := service.NewAuthService(hash, "secret", time.Hour)
	result, apiErr := authService.IssueToken(context.Background(), "pass")
	require.Nil(t, apiErr)
	engine := newEngine(Auth(authService))

	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{name: "missing", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer  ", status: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "header", header: "Bearer " + result.Token, status: http.StatusOK},
		{name: "query", query: "?access_token=" + result.Token, status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := serve(engine, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "owner", rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"code":"unauthorized"`)
			}
		})
	}
}

func TestAuthDisabledPassesThrough(t *testing.T) {
	engine := newEngine(Auth(service.NewAuthService("", "secret", time.Hour)))
	rec := serve(engine, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/inkmark/inkmark/internal/middleware"
)

func TestRequestIDEchoesIncoming(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	var seen string
	r.GET("/ping", func(c *gin.Context) {
		value, _ := c.Get(middleware.ContextRequestIDKey)
		seen, _ = value.(string)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "upstream-id")
	r.ServeHTTP(w, req)
	require.Equal(t, "upstream-id", w.Header().Get("X-Request-Id"))
	require.Equal(t, "upstream-id", seen)

	// Without an incoming id a hex one gets minted.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Regexp(t, regexp.MustCompile(`^[0-9a-f]{24}$`), w.Header().Get("X-Request-Id"))
}

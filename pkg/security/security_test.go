package security

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func corsRequest(router *gin.Engine, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", origin)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORSAllowsOnlyWhitelistedOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	origins := NewOriginList([]string{"http://localhost:5173"})

	router := gin.New()
	router.Use(CORS(origins))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := corsRequest(router, "http://localhost:5173")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("whitelisted origin not allowed, header = %q", got)
	}

	w = corsRequest(router, "http://evil.example")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unknown origin must not be allowed, header = %q", got)
	}
}

func TestCORSOriginListHotUpdate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	origins := NewOriginList([]string{"http://localhost:5173"})

	router := gin.New()
	router.Use(CORS(origins))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := corsRequest(router, "https://ops.example.com")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("origin allowed before update, header = %q", got)
	}

	// 配置热更新后，新白名单对已装配的中间件立即生效
	origins.Update([]string{"https://ops.example.com"})

	w = corsRequest(router, "https://ops.example.com")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://ops.example.com" {
		t.Fatalf("updated origin not allowed, header = %q", got)
	}

	w = corsRequest(router, "http://localhost:5173")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("removed origin still allowed, header = %q", got)
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS(NewOriginList([]string{"http://localhost:5173"})))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", w.Code)
	}
}

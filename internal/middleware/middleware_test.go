package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/notesrv/internal/metrics"
)

func newTestEngine(middlewares ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middlewares...)
	engine.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})
	engine.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})
	return engine
}

func serve(engine http.Handler, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func TestRequestIDGenerated(t *testing.T) {
	engine := newTestEngine(RequestID())
	resp := serve(engine, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	reqID := resp.Header().Get(HeaderRequestID)
	require.Len(t, reqID, 36)
	require.Equal(t, reqID, resp.Body.String())
}

func TestRequestIDPropagated(t *testing.T) {
	engine := newTestEngine(RequestID())
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	resp := serve(engine, req)
	require.Equal(t, "abc-123", resp.Header().Get(HeaderRequestID))
	require.Equal(t, "abc-123", resp.Body.String())
}

func TestCORSAllowAll(t *testing.T) {
	engine := newTestEngine(CORS(nil))
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://tauri.localhost")
	resp := serve(engine, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, corsAllowMethods, resp.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORSAllowlist(t *testing.T) {
	engine := newTestEngine(CORS([]string{" http://localhost:1420 ", ""}))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:1420")
	resp := serve(engine, req)
	require.Equal(t, "http://localhost:1420", resp.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "Origin", resp.Header().Get("Vary"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.example")
	resp = serve(engine, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
	require.Empty(t, resp.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORSPreflight(t *testing.T) {
	engine := newTestEngine(CORS(nil))
	resp := serve(engine, httptest.NewRequest(http.MethodOptions, "/ping", nil))
	require.Equal(t, http.StatusNoContent, resp.Code)
}

func TestRecoveryReturnsJSON500(t *testing.T) {
	engine := newTestEngine(RequestID(), Recovery())
	resp := serve(engine, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	require.JSONEq(t, `{"detail":"Internal Server Error"}`, resp.Body.String())
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	engine := newTestEngine(Metrics(m), AccessLog())

	serve(engine, httptest.NewRequest(http.MethodGet, "/ping", nil))
	serve(engine, httptest.NewRequest(http.MethodGet, "/ping", nil))
	serve(engine, httptest.NewRequest(http.MethodGet, "/missing", nil))

	registry := prometheus.NewRegistry()
	require.NoError(t, registry.Register(m))
	count, err := testutil.GatherAndCount(registry, "notesrv_http_requests_total")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

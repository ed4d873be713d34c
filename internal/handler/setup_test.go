package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/notesrv/internal/handler"
	"github.com/xxxsen/notesrv/internal/metrics"
	"github.com/xxxsen/notesrv/internal/middleware"
	"github.com/xxxsen/notesrv/internal/repo"
	"github.com/xxxsen/notesrv/internal/service"
	"github.com/xxxsen/notesrv/internal/testutil"
)

type noteBody struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	notes := service.NewNoteService(repo.NewStore(testutil.OpenTestDB(t)), m)

	deps := handler.RouterDeps{
		Notes:   handler.NewNoteHandler(notes),
		Health:  handler.NewHealthHandler(notes),
		Metrics: m,
	}
	return handler.NewEngine(deps, middleware.CORS(nil))
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out), resp.Body.String())
	return out
}

func createNote(t *testing.T, router http.Handler, title, content string) noteBody {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"title": title, "content": content})
	require.NoError(t, err)
	resp := doRequest(t, router, http.MethodPost, "/notes/", string(payload))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	return decode[noteBody](t, resp)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/notesrv/internal/metrics"
	"github.com/xxxsen/notesrv/internal/middleware"
	"github.com/xxxsen/notesrv/internal/pkg/response"
)

type RouterDeps struct {
	Notes   *NoteHandler
	Health  *HealthHandler
	Metrics *metrics.Metrics
}

func RegisterRoutes(api gin.IRouter, deps RouterDeps) {
	api.POST("/notes/", deps.Notes.Create)
	api.GET("/notes/", deps.Notes.List)
	api.GET("/notes/:id", deps.Notes.Get)
	api.PUT("/notes/:id", deps.Notes.Update)
	api.DELETE("/notes/:id", deps.Notes.Delete)

	if deps.Health != nil {
		api.GET("/healthz", deps.Health.Check)
	}
	if deps.Metrics != nil {
		api.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
}

// NewEngine builds the gin engine with the base middleware chain followed by
// extra, then registers the routes.
func NewEngine(deps RouterDeps, extra ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.Recovery(), middleware.AccessLog())
	if deps.Metrics != nil {
		engine.Use(middleware.Metrics(deps.Metrics))
	}
	engine.Use(extra...)
	engine.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})
	engine.HandleMethodNotAllowed = true
	engine.NoMethod(func(c *gin.Context) {
		response.Error(c, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})
	RegisterRoutes(engine, deps)
	return engine
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/notesrv/internal/pkg/response"
	"github.com/xxxsen/notesrv/internal/service"
)

type HealthHandler struct {
	notes *service.NoteService
}

func NewHealthHandler(notes *service.NoteService) *HealthHandler {
	return &HealthHandler{notes: notes}
}

func (h *HealthHandler) Check(c *gin.Context) {
	total, err := h.notes.Health(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"status": "ok", "notes": total})
}

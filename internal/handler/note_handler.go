package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	appErr "github.com/xxxsen/notesrv/internal/pkg/errors"
	"github.com/xxxsen/notesrv/internal/pkg/response"
	"github.com/xxxsen/notesrv/internal/service"
)

type NoteHandler struct {
	notes *service.NoteService
}

func NewNoteHandler(notes *service.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

// Pointers tell a missing field apart from an empty string.
type noteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func bindNote(c *gin.Context) (service.NoteInput, error) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return service.NoteInput{}, fmt.Errorf("%w: malformed body: %s", appErr.ErrInvalid, err.Error())
	}
	if req.Title == nil {
		return service.NoteInput{}, fmt.Errorf("%w: field required: title", appErr.ErrInvalid)
	}
	if req.Content == nil {
		return service.NoteInput{}, fmt.Errorf("%w: field required: content", appErr.ErrInvalid)
	}
	return service.NoteInput{Title: *req.Title, Content: *req.Content}, nil
}

func (h *NoteHandler) Create(c *gin.Context) {
	input, err := bindNote(c)
	if err != nil {
		handleError(c, err)
		return
	}
	note, err := h.notes.Create(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, note)
}

func (h *NoteHandler) List(c *gin.Context) {
	notes, err := h.notes.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, notes)
}

func (h *NoteHandler) Get(c *gin.Context) {
	id, ok := parseNoteID(c)
	if !ok {
		return
	}
	note, err := h.notes.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, note)
}

func (h *NoteHandler) Update(c *gin.Context) {
	id, ok := parseNoteID(c)
	if !ok {
		return
	}
	input, err := bindNote(c)
	if err != nil {
		handleError(c, err)
		return
	}
	note, err := h.notes.Update(c.Request.Context(), id, input)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, note)
}

func (h *NoteHandler) Delete(c *gin.Context) {
	id, ok := parseNoteID(c)
	if !ok {
		return
	}
	note, err := h.notes.Delete(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, note)
}

package service

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/notesrv/internal/metrics"
	"github.com/xxxsen/notesrv/internal/model"
	"github.com/xxxsen/notesrv/internal/repo"
)

const (
	opCreate = "create"
	opList   = "list"
	opGet    = "get"
	opUpdate = "update"
	opDelete = "delete"
)

// NoteService runs every operation in its own session.
type NoteService struct {
	store   *repo.Store
	metrics *metrics.Metrics
}

func NewNoteService(store *repo.Store, m *metrics.Metrics) *NoteService {
	return &NoteService{store: store, metrics: m}
}

type NoteInput struct {
	Title   string
	Content string
}

func (s *NoteService) Create(ctx context.Context, input NoteInput) (*model.Note, error) {
	note := &model.Note{Title: input.Title, Content: input.Content}
	err := s.store.WithSession(ctx, func(sess *repo.Session) error {
		if err := sess.Notes().Create(ctx, note); err != nil {
			return fmt.Errorf("create note: %w", err)
		}
		return nil
	})
	s.metrics.RecordOperation(opCreate, err)
	if err != nil {
		return nil, err
	}
	logutil.GetLogger(ctx).Debug("note created", zap.Int64("note_id", note.ID))
	return note, nil
}

func (s *NoteService) List(ctx context.Context) ([]model.Note, error) {
	var notes []model.Note
	err := s.store.WithSession(ctx, func(sess *repo.Session) error {
		var err error
		notes, err = sess.Notes().List(ctx)
		if err != nil {
			return fmt.Errorf("list notes: %w", err)
		}
		return nil
	})
	s.metrics.RecordOperation(opList, err)
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *NoteService) Get(ctx context.Context, id int64) (*model.Note, error) {
	var note *model.Note
	err := s.store.WithSession(ctx, func(sess *repo.Session) error {
		var err error
		note, err = sess.Notes().GetByID(ctx, id)
		return err
	})
	s.metrics.RecordOperation(opGet, err)
	if err != nil {
		return nil, err
	}
	return note, nil
}

// Update replaces title and content; the id never changes. The returned note
// is re-read after the write.
func (s *NoteService) Update(ctx context.Context, id int64, input NoteInput) (*model.Note, error) {
	var note *model.Note
	err := s.store.WithSession(ctx, func(sess *repo.Session) error {
		current, err := sess.Notes().GetByID(ctx, id)
		if err != nil {
			return err
		}
		current.Title = input.Title
		current.Content = input.Content
		if err := sess.Notes().Update(ctx, current); err != nil {
			return fmt.Errorf("update note: %w", err)
		}
		note, err = sess.Notes().GetByID(ctx, id)
		return err
	})
	s.metrics.RecordOperation(opUpdate, err)
	if err != nil {
		return nil, err
	}
	logutil.GetLogger(ctx).Debug("note updated", zap.Int64("note_id", id))
	return note, nil
}

// Delete removes the note and returns it as it was just before removal.
func (s *NoteService) Delete(ctx context.Context, id int64) (*model.Note, error) {
	var snapshot *model.Note
	err := s.store.WithSession(ctx, func(sess *repo.Session) error {
		var err error
		snapshot, err = sess.Notes().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := sess.Notes().Delete(ctx, id); err != nil {
			return fmt.Errorf("delete note: %w", err)
		}
		return nil
	})
	s.metrics.RecordOperation(opDelete, err)
	if err != nil {
		return nil, err
	}
	logutil.GetLogger(ctx).Debug("note deleted", zap.Int64("note_id", id))
	return snapshot, nil
}

// Health acquires and releases a session and reports how many notes exist.
func (s *NoteService) Health(ctx context.Context) (int64, error) {
	var total int64
	err := s.store.WithSession(ctx, func(sess *repo.Session) error {
		var err error
		total, err = sess.Notes().Count(ctx)
		return err
	})
	return total, err
}

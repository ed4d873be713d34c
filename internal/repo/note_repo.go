package repo

import (
	"context"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"

	"github.com/xxxsen/notesrv/internal/model"
	"github.com/xxxsen/notesrv/internal/pkg/dbutil"
	appErr "github.com/xxxsen/notesrv/internal/pkg/errors"
)

const noteTable = "notes"

var noteFields = []string{"id", "title", "content"}

type NoteRepo struct {
	q sqlx.ExtContext
}

func NewNoteRepo(q sqlx.ExtContext) *NoteRepo {
	return &NoteRepo{q: q}
}

// Create inserts the note and stores the generated id back into it.
func (r *NoteRepo) Create(ctx context.Context, note *model.Note) error {
	data := map[string]interface{}{
		"title":   note.Title,
		"content": note.Content,
	}
	sqlStr, args, err := builder.BuildInsert(noteTable, []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(r.q, sqlStr+" RETURNING id", args)
	return sqlx.GetContext(ctx, r.q, &note.ID, sqlStr, args...)
}

func (r *NoteRepo) GetByID(ctx context.Context, id int64) (*model.Note, error) {
	where := map[string]interface{}{
		"id": id,
	}
	sqlStr, args, err := builder.BuildSelect(noteTable, where, noteFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(r.q, sqlStr, args)
	var note model.Note
	if err := sqlx.GetContext(ctx, r.q, &note, sqlStr, args...); err != nil {
		if dbutil.IsNoRows(err) {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &note, nil
}

func (r *NoteRepo) List(ctx context.Context) ([]model.Note, error) {
	where := map[string]interface{}{
		"_orderby": "id asc",
	}
	sqlStr, args, err := builder.BuildSelect(noteTable, where, noteFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(r.q, sqlStr, args)
	notes := make([]model.Note, 0)
	if err := sqlx.SelectContext(ctx, r.q, &notes, sqlStr, args...); err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *NoteRepo) Update(ctx context.Context, note *model.Note) error {
	where := map[string]interface{}{
		"id": note.ID,
	}
	update := map[string]interface{}{
		"title":   note.Title,
		"content": note.Content,
	}
	sqlStr, args, err := builder.BuildUpdate(noteTable, where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(r.q, sqlStr, args)
	result, err := r.q.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *NoteRepo) Delete(ctx context.Context, id int64) error {
	where := map[string]interface{}{
		"id": id,
	}
	sqlStr, args, err := builder.BuildDelete(noteTable, where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(r.q, sqlStr, args)
	result, err := r.q.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *NoteRepo) Count(ctx context.Context) (int64, error) {
	sqlStr, args := dbutil.Finalize(r.q, "SELECT COUNT(*) FROM notes", nil)
	var total int64
	if err := sqlx.GetContext(ctx, r.q, &total, sqlStr, args...); err != nil {
		return 0, err
	}
	return total, nil
}

package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/notesrv/internal/metrics"
	appErr "github.com/xxxsen/notesrv/internal/pkg/errors"
	"github.com/xxxsen/notesrv/internal/repo"
	"github.com/xxxsen/notesrv/internal/service"
	"github.com/xxxsen/notesrv/internal/testutil"
)

func newNoteService(t *testing.T) *service.NoteService {
	t.Helper()
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	return service.NewNoteService(repo.NewStore(testutil.OpenTestDB(t)), m)
}

func TestNoteServiceCreateAndGet(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, service.NoteInput{Title: "A", Content: "B"})
	require.NoError(t, err)
	require.Positive(t, created.ID)
	require.Equal(t, "A", created.Title)
	require.Equal(t, "B", created.Content)

	first, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	second, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, first)
	require.Equal(t, first, second)
}

func TestNoteServiceList(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	notes, err := svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, notes)

	const n = 5
	for i := 0; i < n; i++ {
		_, err := svc.Create(ctx, service.NoteInput{Title: fmt.Sprintf("t%d", i), Content: fmt.Sprintf("c%d", i)})
		require.NoError(t, err)
	}
	notes, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, n)
	for i, note := range notes {
		require.Equal(t, fmt.Sprintf("t%d", i), note.Title)
		require.Equal(t, fmt.Sprintf("c%d", i), note.Content)
	}

	total, err := svc.Health(ctx)
	require.NoError(t, err)
	require.EqualValues(t, n, total)
}

func TestNoteServiceUpdatePreservesID(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, service.NoteInput{Title: "old", Content: "old body"})
	require.NoError(t, err)
	updated, err := svc.Update(ctx, created.ID, service.NoteInput{Title: "new", Content: ""})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "new", updated.Title)
	require.Equal(t, "", updated.Content)

	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, updated, fetched)
}

func TestNoteServiceDeleteReturnsSnapshot(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	keep, err := svc.Create(ctx, service.NoteInput{Title: "keep", Content: "k"})
	require.NoError(t, err)
	gone, err := svc.Create(ctx, service.NoteInput{Title: "gone", Content: "g"})
	require.NoError(t, err)

	snapshot, err := svc.Delete(ctx, gone.ID)
	require.NoError(t, err)
	require.Equal(t, gone, snapshot)

	_, err = svc.Get(ctx, gone.ID)
	require.ErrorIs(t, err, appErr.ErrNotFound)
	notes, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.Equal(t, *keep, notes[0])
}

func TestNoteServiceNotFound(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, 99999)
	require.ErrorIs(t, err, appErr.ErrNotFound)
	_, err = svc.Update(ctx, 99999, service.NoteInput{Title: "x"})
	require.ErrorIs(t, err, appErr.ErrNotFound)
	_, err = svc.Delete(ctx, 99999)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestNoteServiceWithoutMetrics(t *testing.T) {
	svc := service.NewNoteService(repo.NewStore(testutil.OpenTestDB(t)), nil)
	note, err := svc.Create(context.Background(), service.NoteInput{Title: "a", Content: "b"})
	require.NoError(t, err)
	require.Positive(t, note.ID)
}

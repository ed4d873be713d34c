package repo

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/notesrv/internal/pkg/dbutil"
)

var ErrSessionClosed = errors.New("session already closed")

// Store hands out request scoped sessions over a shared connection pool.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Session is one transaction. It must be released on every exit path;
// Release after Commit is a no-op.
type Session struct {
	tx     *sqlx.Tx
	closed bool
	notes  *NoteRepo
}

func (s *Store) Acquire(ctx context.Context) (*Session, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Session{tx: tx, notes: NewNoteRepo(tx)}, nil
}

// WithSession acquires a session, runs fn, commits when fn succeeds and
// releases the session regardless of the outcome.
func (s *Store) WithSession(ctx context.Context, fn func(sess *Session) error) error {
	sess, err := s.Acquire(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Release(); err != nil {
			logutil.GetLogger(ctx).Error("release session failed", zap.Error(err))
		}
	}()
	if err := fn(sess); err != nil {
		return err
	}
	return sess.Commit()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Session) Notes() *NoteRepo {
	return s.notes
}

func (s *Session) Commit() error {
	if s.closed {
		return ErrSessionClosed
	}
	s.closed = true
	return s.tx.Commit()
}

func (s *Session) Release() error {
	if s.closed {
		return nil
	}
	s.closed = true
	// the driver already rolled back when the request context was cancelled
	if err := s.tx.Rollback(); err != nil && !dbutil.IsTxDone(err) {
		return err
	}
	return nil
}

package dbutil

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Finalize rewrites the ? placeholders emitted by the sql builder into the
// bind style of the driver behind q.
func Finalize(q sqlx.ExtContext, query string, args []interface{}) (string, []interface{}) {
	return q.Rebind(query), args
}

func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func IsTxDone(err error) bool {
	return errors.Is(err, sql.ErrTxDone)
}

package db

import (
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrEmailTaken     = errors.New("user already exists for email")
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateTitle = errors.New("a post with this title already exists")
	ErrPostNotFound   = errors.New("post not found")
)

// IsNonUniqueErr reports whether err is a unique constraint violation from either driver.
func IsNonUniqueErr(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}

	return false
}

// IsSerializationErr reports whether postgres aborted a serializable
// transaction that is safe to retry.
func IsSerializationErr(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001"
	}
	return false
}

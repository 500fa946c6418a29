package db

import (
	"context"
	"database/sql"
	"runtime/debug"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func WithTx(ctx context.Context, reason string, fn func(tx *sqlx.Tx) error) error {
	return withTx(ctx, nil, reason, fn)
}

func WithTxOpts(ctx context.Context, opts *sql.TxOptions, reason string, fn func(tx *sqlx.Tx) error) error {
	return withTx(ctx, opts, reason, fn)
}

// SerializableTxOpts is for transactions that decide on a write from what they
// read. SQLite already serializes writers, so it gets the default options.
func SerializableTxOpts() *sql.TxOptions {
	if Driver == DriverPostgres {
		return &sql.TxOptions{Isolation: sql.LevelSerializable}
	}
	return nil
}

func withTx(ctx context.Context, opts *sql.TxOptions, reason string, fn func(tx *sqlx.Tx) error) (err error) {
	log := zap.S()
	log.Debugf("starting transaction: (%s)", reason)

	tx, err := Conn.BeginTxx(ctx, opts)
	if err != nil {
		return errors.Wrap(err, "error starting transaction")
	}

	var committed bool

	// Ensure that rollback is attempted in case of failure
	defer func() {
		if panicErr := recover(); panicErr != nil {
			log.Errorf("panic in WithTx (%s): %v\n%s", reason, panicErr, debug.Stack())
			err = errors.Errorf("panic in transaction (%s): %v", reason, panicErr)
		}

		if committed {
			return
		}

		if rbErr := tx.Rollback(); rbErr != nil {
			if rbErr == sql.ErrTxDone {
				log.Debugf("attempted to roll back transaction, but it was already committed: (%s)", reason)
			} else {
				log.Errorf("transaction rollback error: (%s) %v", reason, rbErr)
			}
		} else {
			log.Debugf("transaction rolled back: (%s)", reason)
		}
	}()

	err = fn(tx)

	if err != nil {
		log.Debugf("error in WithTx (%s): %v", reason, err)
		return err
	}

	err = tx.Commit()
	if err != nil {
		log.Errorf("error committing transaction: (%s) %v", reason, err)
		return errors.Wrap(err, "error committing transaction")
	}

	committed = true

	log.Debugf("committed transaction: (%s)", reason)

	return nil
}

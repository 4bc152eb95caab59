package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// txRecorder is a database/sql driver that performs no I/O and records
// transaction outcomes, letting RunInTransaction run without a database.
type txRecorder struct {
	commits   int
	rollbacks int
	commitErr error
}

func (r *txRecorder) Connect(context.Context) (driver.Conn, error) { return &recorderConn{r: r}, nil }
func (r *txRecorder) Driver() driver.Driver                        { return recorderDriver{} }

type recorderDriver struct{}

func (recorderDriver) Open(string) (driver.Conn, error) { return nil, errors.New("use Connect") }

type recorderConn struct {
	r *txRecorder
}

func (c *recorderConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("no statements") }
func (c *recorderConn) Close() error                        { return nil }
func (c *recorderConn) Begin() (driver.Tx, error)           { return &recorderTx{r: c.r}, nil }

type recorderTx struct {
	r *txRecorder
}

func (t *recorderTx) Commit() error {
	if t.r.commitErr != nil {
		return t.r.commitErr
	}
	t.r.commits++
	return nil
}

func (t *recorderTx) Rollback() error {
	t.r.rollbacks++
	return nil
}

func TestRunInTransaction(t *testing.T) {
	t.Parallel()

	t.Run("commits when the function succeeds", func(t *testing.T) {
		t.Parallel()

		rec := &txRecorder{}
		db := sql.OpenDB(rec)

		called := false
		err := RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			called = true
			require.NotNil(t, tx)
			return nil
		})

		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, 1, rec.commits)
		assert.Equal(t, 0, rec.rollbacks)
	})

	t.Run("rolls back and returns the function error unchanged", func(t *testing.T) {
		t.Parallel()

		rec := &txRecorder{}
		db := sql.OpenDB(rec)

		fnErr := errors.New("insert failed")
		err := RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			return fnErr
		})

		require.ErrorIs(t, err, fnErr)
		assert.Equal(t, 0, rec.commits)
		assert.Equal(t, 1, rec.rollbacks)
	})

	t.Run("sentinel errors survive the rollback", func(t *testing.T) {
		t.Parallel()

		rec := &txRecorder{}
		db := sql.OpenDB(rec)

		err := RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			return ErrCodeExists
		})

		require.ErrorIs(t, err, ErrCodeExists)
		assert.True(t, IsDuplicateError(err))
	})

	t.Run("commit failure is a transaction failure", func(t *testing.T) {
		t.Parallel()

		rec := &txRecorder{commitErr: errors.New("connection reset")}
		db := sql.OpenDB(rec)

		err := RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			return nil
		})

		require.ErrorIs(t, err, ErrTransactionFailed)
	})
}

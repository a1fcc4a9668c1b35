package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
)

func TestTxManagerLifecycle(t *testing.T) {
	tests := []struct {
		name   string
		opts   []TxOption
		expect func(pgxmock.PgxPoolIface)
		finish func(context.Context, *Tx) error
	}{
		{
			name: "commit on default isolation",
			expect: func(p pgxmock.PgxPoolIface) {
				p.ExpectBegin()
				p.ExpectCommit()
			},
			finish: func(ctx context.Context, tx *Tx) error { return tx.Commit(ctx) },
		},
		{
			name: "rollback",
			expect: func(p pgxmock.PgxPoolIface) {
				p.ExpectBegin()
				p.ExpectRollback()
			},
			finish: func(ctx context.Context, tx *Tx) error { return tx.Rollback(ctx) },
		},
		{
			name: "serializable review",
			opts: []TxOption{WithIsolation(pgx.Serializable)},
			expect: func(p pgxmock.PgxPoolIface) {
				p.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.Serializable})
				p.ExpectCommit()
			},
			finish: func(ctx context.Context, tx *Tx) error { return tx.Commit(ctx) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := newMockPool(t)
			tt.expect(pool)

			tx, err := newTxManagerWithPool(pool, tt.opts...).Begin(context.Background())
			if err != nil {
				t.Fatalf("begin: %v", err)
			}
			if err := tt.finish(context.Background(), tx.(*Tx)); err != nil {
				t.Fatalf("finish: %v", err)
			}

			assertExpectations(t, pool)
		})
	}
}

func TestTxManagerBeginFailure(t *testing.T) {
	pool := newMockPool(t)
	refused := errors.New("too many connections")
	pool.ExpectBegin().WillReturnError(refused)

	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	if !errors.Is(err, refused) {
		t.Fatalf("expected %v, got err=%v", refused, err)
	}
	if tx != nil {
		t.Fatalf("expected no transaction, got %v", tx)
	}
}

func TestTxRollbackSurfacesDriverError(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectBegin()
	broken := errors.New("connection reset")
	pool.ExpectRollback().WillReturnError(broken)

	tx := beginTx(t, pool)
	if err := tx.Rollback(context.Background()); !errors.Is(err, broken) {
		t.Fatalf("expected %v, got %v", broken, err)
	}
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func assertExpectations(t *testing.T, pool pgxmock.PgxPoolIface) {
	t.Helper()
	if err := pool.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func beginTx(t *testing.T, pool pgxmock.PgxPoolIface) *Tx {
	t.Helper()
	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	return tx.(*Tx)
}

package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
)

type fakeTx struct {
	pgx.Tx
	commits   int
	rollbacks int
	commitErr error
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.commits++
	return t.commitErr
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rollbacks++
	if t.commits > 0 {
		return pgx.ErrTxClosed
	}
	return nil
}

type fakeStarter struct {
	tx  *fakeTx
	err error
}

func (s *fakeStarter) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.tx, nil
}

func TestWithTxCommits(t *testing.T) {
	starter := &fakeStarter{tx: &fakeTx{}}
	err := WithTx(context.Background(), starter, func(ctx context.Context, tx pgx.Tx) error {
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if starter.tx.commits != 1 || starter.tx.rollbacks != 0 {
		t.Fatalf("commits=%d rollbacks=%d", starter.tx.commits, starter.tx.rollbacks)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	errBoom := errors.New("boom")
	tests := []struct {
		name      string
		fn        func(ctx context.Context, tx pgx.Tx) error
		commitErr error
		wantErr   error
		commits   int
		rollbacks int
	}{
		{
			name:      "fn error",
			fn:        func(ctx context.Context, tx pgx.Tx) error { return errBoom },
			wantErr:   errBoom,
			rollbacks: 1,
		},
		{
			name:      "commit error",
			fn:        func(ctx context.Context, tx pgx.Tx) error { return nil },
			commitErr: errBoom,
			wantErr:   errBoom,
			commits:   1,
			rollbacks: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			starter := &fakeStarter{tx: &fakeTx{commitErr: tt.commitErr}}
			err := WithTx(context.Background(), starter, tt.fn)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if errors.Is(err, pgx.ErrTxClosed) {
				t.Fatalf("closed tx must not leak into error: %v", err)
			}
			if starter.tx.commits != tt.commits || starter.tx.rollbacks != tt.rollbacks {
				t.Fatalf("commits=%d rollbacks=%d", starter.tx.commits, starter.tx.rollbacks)
			}
		})
	}
}

func TestWithTxBeginError(t *testing.T) {
	errDown := errors.New("connection refused")
	called := false
	err := WithTx(context.Background(), &fakeStarter{err: errDown}, func(ctx context.Context, tx pgx.Tx) error {
		called = true
		return nil
	})
	if !errors.Is(err, errDown) {
		t.Fatalf("expected wrapped begin error, got %v", err)
	}
	if called {
		t.Fatalf("fn must not run without a transaction")
	}
}

func TestWithTxPanicRollsBack(t *testing.T) {
	starter := &fakeStarter{tx: &fakeTx{}}
	defer func() {
		if p := recover(); p != "boom" {
			t.Fatalf("expected panic to propagate, got %v", p)
		}
		if starter.tx.rollbacks != 1 || starter.tx.commits != 0 {
			t.Fatalf("commits=%d rollbacks=%d", starter.tx.commits, starter.tx.rollbacks)
		}
	}()
	_ = WithTx(context.Background(), starter, func(ctx context.Context, tx pgx.Tx) error {
		panic("boom")
	})
}

package fluentdb

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/biyonik/fluentdb/internal/validation"
)

// -----------------------------------------------------------------------------
//  Tx, bir *sql.Tx üzerinde Builder kullanmayı sağlar. Aynı transaction
//  üzerinden çalışan ifadeler birlikte kalıcı olur (Commit) ya da birlikte
//  geri alınır (Rollback).
//
//  Tx thread-safe değildir; her goroutine kendi transaction'ını kullanmalıdır.
//  Kapanma durumu yalnızca yanlışlıkla tekrar kullanımı yakalamak için kilitlenir.
//
//  -- @author   Ahmet ALTUN
//  -- @github   github.com/biyonik
//  -- @linkedin linkedin.com/in/biyonik
//  -- @email    ahmet.altun60@gmail.com
// -----------------------------------------------------------------------------

// Tx, bir SQL transaction'ını temsil eder ve QueryExecutor'ı uygular.
type Tx struct {
	tx *sql.Tx
	db *DB

	mu     sync.Mutex
	closed bool
}

// Table, transaction kapsamında çalışan yeni bir Builder üretir.
//
//	err := db.Transaction(ctx, func(tx *fluentdb.Tx) error {
//	    _, err := tx.Table("projectdb").Delete(ctx, fluentdb.NewWhere("`name` = ?", "old"))
//	    return err
//	})
func (t *Tx) Table(name string) *Builder {
	return newBuilder(t.db, t, t.db.prefix+name)
}

// Commit, yapılan tüm işlemleri kalıcı hale getirir. İkinci çağrı ErrTxAlreadyClosed döner.
func (t *Tx) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTxAlreadyClosed
	}

	t.closed = true
	if err := t.tx.Commit(); err != nil {
		return WrapError("commit transaction", err)
	}
	return nil
}

// Rollback, tüm değişiklikleri geri alır. İdempotenttir.
func (t *Tx) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}

	t.closed = true
	if err := t.tx.Rollback(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return nil
		}
		return WrapError("rollback transaction", err)
	}
	return nil
}

// IsClosed, transaction'ın commit ya da rollback sonrası kapanıp kapanmadığını bildirir.
func (t *Tx) IsClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// ExecContext, QueryExecutor'ı uygular.
func (t *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if t.IsClosed() {
		return nil, ErrTxAlreadyClosed
	}
	return t.tx.ExecContext(ctx, query, args...)
}

// QueryContext, QueryExecutor'ı uygular.
func (t *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if t.IsClosed() {
		return nil, ErrTxAlreadyClosed
	}
	return t.tx.QueryContext(ctx, query, args...)
}

// Savepoint, transaction içinde geri dönülebilecek bir nokta oluşturur.
// Not: Her veritabanı savepoint desteklemez.
func (t *Tx) Savepoint(ctx context.Context, name string) error {
	return t.savepointStmt(ctx, "SAVEPOINT ", name, "create savepoint")
}

// RollbackTo, transaction'ı yalnızca belirtilen savepoint'e kadar geri alır.
func (t *Tx) RollbackTo(ctx context.Context, name string) error {
	return t.savepointStmt(ctx, "ROLLBACK TO SAVEPOINT ", name, "rollback to savepoint")
}

// ReleaseSavepoint, savepoint'i serbest bırakır; transaction'ı bitirmez.
func (t *Tx) ReleaseSavepoint(ctx context.Context, name string) error {
	return t.savepointStmt(ctx, "RELEASE SAVEPOINT ", name, "release savepoint")
}

func (t *Tx) savepointStmt(ctx context.Context, verb, name, op string) error {
	if err := validation.ValidateIdentifier(name); err != nil {
		return translateValidation(err)
	}
	if _, err := t.db.execOn(ctx, t, verb+name, nil); err != nil {
		if errors.Is(err, ErrTxAlreadyClosed) {
			return err
		}
		return WrapError(op, err)
	}
	return nil
}

// SQLTx, alttaki *sql.Tx referansını döndürür.
func (t *Tx) SQLTx() *sql.Tx {
	return t.tx
}

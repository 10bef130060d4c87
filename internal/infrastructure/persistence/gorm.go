// internal/infrastructure/persistence/gorm.go
package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/your-org/pos-backend/internal/domain/inventory"
)

// txKey carries the open *gorm.DB transaction through the context so every
// repository call made inside TransactionScope.Execute joins it.
type txKey struct{}

const maxTxAttempts = 3

// GormTransactionScope implements inventory.TransactionScope over a gorm
// database. Serialization failures and deadlocks are retried a bounded
// number of times before surfacing as a ConflictError.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewTransactionScope creates a transaction scope over db.
func NewTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside a database transaction. Nested calls join the
// transaction already open in the context.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	var lastErr error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		lastErr = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(context.WithValue(ctx, txKey{}, tx))
		})
		if lastErr == nil || !retryable(lastErr) {
			return lastErr
		}
	}
	return inventory.NewConflict("transaction conflicted with a concurrent update, try again: %v", lastErr)
}

// retryable reports whether the error is a transient concurrency failure
// (serialization failure or deadlock).
func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// conn returns the transaction bound to the context, or the base connection.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// scoped applies the mandatory tenant/outlet filter.
func scoped(db *gorm.DB, scope inventory.Scope) *gorm.DB {
	return db.Where("tenant_id = ? AND outlet_id = ?", scope.TenantID, scope.OutletID)
}

// notFound converts gorm's record-not-found into the domain error kind.
func notFound(err error, entity string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return inventory.NewNotFound(entity, id)
	}
	return err
}

package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"bailanysta/internal/database"
	"bailanysta/internal/models"
	"bailanysta/internal/observability"

	"gorm.io/gorm"
)

// DefaultStorageTimeout bounds a single storage call when none is configured.
const DefaultStorageTimeout = 2 * time.Second

// base carries the connection and per-call deadline shared by every repository.
type base struct {
	db      *gorm.DB
	timeout time.Duration
}

func newBase(db *gorm.DB, timeout time.Duration) base {
	if timeout <= 0 {
		timeout = DefaultStorageTimeout
	}
	return base{db: db, timeout: timeout}
}

func readDB(primary *gorm.DB) *gorm.DB {
	if db := database.GetReadDB(); db != nil && db != database.DB {
		return db
	}
	return primary
}

// exec runs fn against the primary under the storage deadline and translates its error.
func (b base) exec(ctx context.Context, op, table string, fn func(db *gorm.DB) error) error {
	return b.run(ctx, b.db, op, table, fn)
}

// snapshot runs fn against the read replica when one is configured.
func (b base) snapshot(ctx context.Context, op, table string, fn func(db *gorm.DB) error) error {
	return b.run(ctx, readDB(b.db), op, table, fn)
}

func (b base) run(ctx context.Context, db *gorm.DB, op, table string, fn func(db *gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	defer observability.TrackQuery(op, table)()

	err := fn(db.WithContext(ctx))
	if err != nil && ctx.Err() != nil {
		return unavailable(op, fmt.Errorf("%w: %v", ctx.Err(), err))
	}
	return translateError(op, err)
}

// translateError maps driver failures onto application error kinds. Errors that
// already carry a kind pass through unchanged.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if isTransient(err) {
		return unavailable(op, err)
	}
	return models.NewInternalError(fmt.Errorf("%s: %w", op, err))
}

func unavailable(op string, err error) error {
	observability.StorageUnavailable.WithLabelValues(op).Inc()
	return models.NewUnavailableError(fmt.Errorf("%s: %w", op, err))
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// utcNow is the timestamp stored on new rows. Microsecond precision matches
// Postgres timestamptz so cursor keys compare exactly.
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Package migrate applies the embedded goose migrations.
package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"agenda/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// gooseLogger routes goose output through zap.
type gooseLogger struct{ log *zap.SugaredLogger }

func (l gooseLogger) Printf(format string, v ...any) { l.log.Infof(format, v...) }
func (l gooseLogger) Fatalf(format string, v ...any) { l.log.Fatalf(format, v...) }

// Runner executes migrations against one database.
type Runner struct {
	db    *sql.DB
	close func() error
}

// Open connects through the pgx database/sql driver.
func Open(dsn string, log *zap.Logger) (*Runner, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newRunner(db, db.Close, log)
}

// FromPool runs migrations over an already connected pool. The pool stays
// owned by the caller; closing the Runner leaves it open.
func FromPool(pool *pgxpool.Pool, log *zap.Logger) (*Runner, error) {
	db := stdlib.OpenDBFromPool(pool)
	return newRunner(db, func() error { return nil }, log)
}

func newRunner(db *sql.DB, closeFn func() error, log *zap.Logger) (*Runner, error) {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{log: log.Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		closeFn()
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return &Runner{db: db, close: closeFn}, nil
}

func (r *Runner) Close() error { return r.close() }

// Up applies every pending migration.
func (r *Runner) Up(ctx context.Context) error {
	if err := goose.UpContext(ctx, r.db, "."); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Down rolls back the latest migration.
func (r *Runner) Down(ctx context.Context) error {
	if err := goose.DownContext(ctx, r.db, "."); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// Status logs the state of every migration.
func (r *Runner) Status(ctx context.Context) error {
	if err := goose.StatusContext(ctx, r.db, "."); err != nil {
		return fmt.Errorf("migrate status: %w", err)
	}
	return nil
}

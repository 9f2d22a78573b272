package migrations

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

//go:embed sql/*.sql
var files embed.FS

var (
	// ErrReadMigrations ошибка чтения встроенных миграций
	ErrReadMigrations = errors.New("migrations: failed to read migrations")

	// ErrApplyMigration ошибка применения миграции
	ErrApplyMigration = errors.New("migrations: failed to apply migration")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Migration одна встроенная миграция
type Migration struct {
	Version string
	SQL     string
}

// List возвращает встроенные миграции в порядке версий
func List() ([]Migration, error) {
	entries, err := fs.ReadDir(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadMigrations, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	migrations := make([]Migration, 0, len(names))
	for _, name := range names {
		body, err := fs.ReadFile(files, "sql/"+name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrReadMigrations, name, err)
		}
		migrations = append(migrations, Migration{
			Version: strings.TrimSuffix(name, ".sql"),
			SQL:     string(body),
		})
	}

	return migrations, nil
}

// Up применяет ещё не применённые миграции, каждую в своей транзакции.
// Возвращает количество применённых миграций.
func Up(ctx context.Context, db dbmetrics.TxBeginner, log Logger) (int, error) {
	migrations, err := List()
	if err != nil {
		return 0, err
	}

	if err := exec(ctx, db, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		return 0, fmt.Errorf("%w: create schema_migrations: %v", ErrApplyMigration, err)
	}

	applied := 0
	for _, m := range migrations {
		ok, err := apply(ctx, db, m)
		if err != nil {
			return applied, fmt.Errorf("%w: %s: %v", ErrApplyMigration, m.Version, err)
		}
		if ok {
			applied++
			log.Info("Applied migration %s", m.Version)
		}
	}

	return applied, nil
}

func apply(ctx context.Context, db dbmetrics.TxBeginner, m Migration) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	err = tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", m.Version).Scan(&exists)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return false, err
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", m.Version); err != nil {
		return false, err
	}

	return true, tx.Commit()
}

func exec(ctx context.Context, db dbmetrics.TxBeginner, query string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, query); err != nil {
		return err
	}
	return tx.Commit()
}

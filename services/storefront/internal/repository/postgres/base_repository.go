package postgres

import (
	"context"
	"embed"
	stderrors "errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"StorefrontPlatform/pkg/errors"
)

// Migrations SQL миграции схемы, применяются через database.Migrate
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir каталог миграций внутри Migrations
const MigrationsDir = "migrations"

// uniqueViolation код ошибки PostgreSQL при нарушении уникальности
const uniqueViolation = "23505"

// DB общий интерфейс пула pgx, который нужен репозиториям
type DB interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// translate переводит ошибки pgx в ошибки приложения
func translate(err error, entity string, id interface{}) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, pgx.ErrNoRows) {
		return errors.NotFound("%s %v was not found", entity, id)
	}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return errors.Wrap(err, errors.ErrConflict, entity+" already exists").WithDetails(pgErr.ConstraintName)
	}
	return errors.Wrap(err, errors.ErrInternal, "failed to access "+entity)
}

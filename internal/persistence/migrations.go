package persistence

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Execer is satisfied by *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const dropSchema = `
DROP TABLE IF EXISTS tasks;
DROP TABLE IF EXISTS team_members;
DROP TABLE IF EXISTS user_roles;
DROP TABLE IF EXISTS teams;
DROP TABLE IF EXISTS roles;
DROP TABLE IF EXISTS users;`

// RunMigrations applies the embedded SQL migrations in lexical order. With
// reset set, existing tables are dropped first so the schema is recreated.
func RunMigrations(ctx context.Context, db Execer, reset bool, logger *zap.Logger) error {
	if reset {
		logger.Warn("dropping existing schema")
		if _, err := db.Exec(ctx, dropSchema); err != nil {
			return fmt.Errorf("drop schema: %w", err)
		}
	}

	filenames, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(filenames)

	for _, name := range filenames {
		content, err := migrationFiles.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		logger.Info("applying migration", zap.String("file", name))
		if _, err := db.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}

	logger.Info("migrations applied", zap.Int("count", len(filenames)))
	return nil
}

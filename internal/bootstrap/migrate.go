package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for goose
	"github.com/pressly/goose/v3"

	"github.com/questline-app/questline/migrations"
)

// RunMigrations applies all pending schema migrations embedded in the binary.
// goose runs over database/sql, so a short-lived stdlib connection is opened
// alongside the pgx pool used at runtime.
func RunMigrations(connString string) error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	db, err := sql.Open("pgx", connString)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	slog.Info(LogMsgMigrationsApplied)
	return nil
}

// Standalone migration runner for operating the schema outside the
// services' startup path, mainly for rollbacks.
package main

import (
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/lib/pq"

	"github.com/storefrontlabs/storefront/internal/config"
	"github.com/storefrontlabs/storefront/internal/db"
)

func main() {

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// MustLoad registers and parses the -config flag when CONFIG_PATH is
	// unset, so -direction must be registered before it runs and parsing
	// must not happen earlier.
	direction := flag.String("direction", "up", "migration direction: up or down")

	cfg := config.MustLoad()

	if !flag.Parsed() {
		flag.Parse()
	}

	conn, err := sql.Open("postgres", cfg.Database.GetDSN())
	if err != nil {
		slog.Error("❌ Error opening the database", "error", err.Error())
		os.Exit(1)
	}
	defer conn.Close()

	m, err := db.NewMigrator(conn)
	if err != nil {
		slog.Error("❌ Error preparing migrations", "error", err.Error())
		os.Exit(1)
	}

	switch *direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	default:
		slog.Error("❌ Unknown migration direction", slog.String("direction", *direction))
		os.Exit(1)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		slog.Info("No schema changes to apply")
		return
	}
	if err != nil {
		slog.Error("❌ Migration failed", "error", err.Error())
		os.Exit(1)
	}

	version, dirty, err := m.Version()
	if err != nil {
		slog.Error("⚠️ Could not read schema version", "error", err.Error())
		return
	}

	slog.Info("✅ Migration complete", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
}

package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pdfcatalog/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

// id is generated by the application (uuid) so no extension is needed.
var steps = []migrationStep{
	{
		Name: "create_table_pdfs",
		SQL: `CREATE TABLE IF NOT EXISTS pdfs (
  id          TEXT        PRIMARY KEY,
  title       TEXT        NOT NULL,
  subject     TEXT        NOT NULL,
  year_level  TEXT        NOT NULL,
  file_url    TEXT        NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_pdfs_year_level",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_pdfs_year_level ON pdfs (year_level);`,
	},
	{
		Name: "create_index_pdfs_subject_title",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_pdfs_subject_title ON pdfs (subject, title);`,
	},
}

// EnsureMigrated applies every step on each start. The steps are idempotent,
// so a schema left half-built by an earlier failed run is completed.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *logging.Logger, dbHost string) error {
	log = log.With("database")
	start := time.Now()

	log.Log(map[string]any{
		"event":   "db_migration_start",
		"status":  "starting",
		"db_host": dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Log(map[string]any{
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Log(map[string]any{
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	log.Log(map[string]any{
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

package postgresql

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
)

//go:embed schema.sql
var schema string

// Migrate creates any missing tables. The schema is idempotent.
func Migrate(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	slog.Info("Database schema applied")
	return nil
}

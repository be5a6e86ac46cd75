package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"inventory/pkg/logger"
)

//go:embed schema.sql
var schemaSQL string

// Migrate creates the tables if they do not exist.
func Migrate(ctx context.Context, q Querier) error {
	// No arguments: pgx sends this with the simple protocol, so the
	// multi-statement script runs in one round trip.
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	logger.Info(ctx, "database schema applied")
	return nil
}

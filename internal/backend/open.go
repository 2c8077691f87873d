// Package backend selects and opens the configured task store.
package backend

import (
	"context"
	"fmt"

	"dtask/internal/backend/csvfile"
	"dtask/internal/backend/sqlite"
	"dtask/internal/config"
	"dtask/internal/service"
)

// Open returns the service.Service for cfg.Backend. Callers should close the
// result when it implements io.Closer.
func Open(ctx context.Context, cfg *config.Config) (service.Service, error) {
	switch cfg.Backend {
	case config.BackendCSV:
		return csvfile.New(cfg.DataPath()), nil
	case config.BackendSQLite:
		return sqlite.Open(ctx, cfg.DataPath())
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

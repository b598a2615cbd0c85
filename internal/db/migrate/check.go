package dbmigrate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

var ErrPendingMigrations = errors.New("pending migrations")

// EnsureCurrent fails with ErrPendingMigrations when the schema is behind,
// unless autoMigrate is set, in which case the pending migrations are applied.
func EnsureCurrent(ctx context.Context, bunDB *bun.DB, dir string, autoMigrate bool) error {
	manager, err := Open(bunDB, dir)
	if err != nil {
		return err
	}
	if err := manager.Init(ctx); err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}

	pending, err := manager.Pending(ctx)
	if err != nil {
		return fmt.Errorf("fetch migration status: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}
	if !autoMigrate {
		return fmt.Errorf("%w: %s; run 'dbctl migrate up' to apply them", ErrPendingMigrations, strings.Join(pending, ", "))
	}
	if _, err := manager.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

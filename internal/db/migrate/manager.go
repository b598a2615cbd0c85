// Package dbmigrate applies the SQL migrations of the report archive.
//
// bun records every `migrate up` as one group and rolls back a whole group at
// a time, so rollbacks here are counted in groups.
package dbmigrate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"github.com/roivaz/gitreport/internal/db/migrations"
)

type Manager struct {
	migrator *migrate.Migrator
}

// New discovers the migrations in fsys.
func New(db *bun.DB, fsys fs.FS) (*Manager, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}
	if fsys == nil {
		return nil, errors.New("migrations filesystem is required")
	}
	found := migrate.NewMigrations()
	if err := found.Discover(fsys); err != nil {
		return nil, fmt.Errorf("discover migrations: %w", err)
	}
	return &Manager{migrator: migrate.NewMigrator(db, found)}, nil
}

// Open returns a Manager over dir, or over the embedded migrations when dir
// is empty.
func Open(db *bun.DB, dir string) (*Manager, error) {
	if dir == "" {
		return New(db, migrations.FS)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve migrations dir: %w", err)
	}
	return New(db, os.DirFS(abs))
}

// Init creates bun's bookkeeping tables. It is idempotent.
func (m *Manager) Init(ctx context.Context) error {
	return m.migrator.Init(ctx)
}

func (m *Manager) Status(ctx context.Context) (migrate.MigrationSlice, error) {
	return m.migrator.MigrationsWithStatus(ctx)
}

// Pending lists the migrations not applied yet as <name>_<comment>.
func (m *Manager) Pending(ctx context.Context) ([]string, error) {
	status, err := m.Status(ctx)
	if err != nil {
		return nil, err
	}
	return pendingNames(status), nil
}

// Up applies every pending migration as one group and returns what ran.
func (m *Manager) Up(ctx context.Context) ([]string, error) {
	group, err := m.migrator.Migrate(ctx)
	if err != nil {
		return nil, err
	}
	if group.IsZero() {
		return nil, nil
	}
	applied := make([]string, 0, len(group.Migrations))
	for _, mig := range group.Migrations {
		applied = append(applied, fmt.Sprintf("%s_%s", mig.Name, mig.Comment))
	}
	return applied, nil
}

// RollbackGroups undoes the last n migration groups, or every group when
// n <= 0, and reports how many groups were rolled back.
func (m *Manager) RollbackGroups(ctx context.Context, n int) (int, error) {
	done := 0
	for n <= 0 || done < n {
		group, err := m.migrator.Rollback(ctx)
		if err != nil {
			return done, err
		}
		if group.IsZero() {
			break
		}
		done++
	}
	return done, nil
}

// RollbackTo undoes groups until no migration newer than target is applied.
// A group holding both target and newer migrations is undone as a whole,
// which also removes target.
func (m *Manager) RollbackTo(ctx context.Context, target string) error {
	if target == "" {
		return errors.New("target version is required")
	}
	for {
		status, err := m.Status(ctx)
		if err != nil {
			return err
		}
		if !hasMigration(status, target) {
			return fmt.Errorf("migration %s not found", target)
		}
		if !appliedAfter(status, target) {
			return nil
		}
		group, err := m.migrator.Rollback(ctx)
		if err != nil {
			return err
		}
		if group.IsZero() {
			return nil
		}
	}
}

func pendingNames(status migrate.MigrationSlice) []string {
	var pending []string
	for _, mig := range status {
		if !mig.IsApplied() {
			pending = append(pending, fmt.Sprintf("%s_%s", mig.Name, mig.Comment))
		}
	}
	return pending
}

func hasMigration(status migrate.MigrationSlice, name string) bool {
	for _, mig := range status {
		if mig.Name == name {
			return true
		}
	}
	return false
}

// appliedAfter reports whether a migration named later than target is
// applied. Migration names start with a sortable timestamp.
func appliedAfter(status migrate.MigrationSlice, target string) bool {
	for _, mig := range status {
		if mig.IsApplied() && mig.Name > target {
			return true
		}
	}
	return false
}

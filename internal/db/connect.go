package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	pgdriver "github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	dbmigrate "github.com/roivaz/gitreport/internal/db/migrate"
)

const defaultPingTimeout = 5 * time.Second

type Config struct {
	DSN           string
	Debug         bool   // log every query through bundebug
	MigrationsDir string // empty selects the embedded migrations
	AutoMigrate   bool
	PingTimeout   time.Duration
}

// Database is the report archive connection pool. It is safe for concurrent
// use and meant to be shared by every run of a process.
type Database struct {
	bun *bun.DB
}

// NewDatabase builds the pool without connecting.
func NewDatabase(cfg Config) (*Database, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres DSN is required")
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	bunDB := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		bunDB.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return &Database{bun: bunDB}, nil
}

// Open connects to the archive and brings its schema up to date, applying
// pending migrations only when cfg.AutoMigrate is set.
func Open(ctx context.Context, cfg Config) (*Database, error) {
	database, err := NewDatabase(cfg)
	if err != nil {
		return nil, err
	}

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := database.Ping(pingCtx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("connect archive: %w", err)
	}

	if err := dbmigrate.EnsureCurrent(ctx, database.bun, cfg.MigrationsDir, cfg.AutoMigrate); err != nil {
		_ = database.Close()
		return nil, err
	}
	return database, nil
}

func (d *Database) Bun() *bun.DB {
	return d.bun
}

func (d *Database) Close() error {
	return d.bun.Close()
}

func (d *Database) Ping(ctx context.Context) error {
	return d.bun.PingContext(ctx)
}

package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/iamnorbiato/F1App/config"
	"github.com/iamnorbiato/F1App/models"
)

// Models lists every table in dependency order.
var Models = []interface{}{
	(*models.Circuit)(nil),
	(*models.Season)(nil),
	(*models.Status)(nil),
	(*models.Constructor)(nil),
	(*models.Driver)(nil),
	(*models.Race)(nil),
	(*models.Result)(nil),
	(*models.SprintResult)(nil),
	(*models.Qualifying)(nil),
	(*models.DriverStanding)(nil),
	(*models.ConstructorStanding)(nil),
	(*models.PitStop)(nil),
	(*models.LapTime)(nil),
	(*models.ImportLock)(nil),
}

// Setup opens the configured store and verifies the connection.
func Setup(cfg *config.Config) *bun.DB {
	db, err := Open(cfg)
	if err != nil {
		log.Fatal("failed to open database:", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}
	return db
}

// Open builds a bun.DB for cfg.DBDriver without touching the network.
func Open(cfg *config.Config) (*bun.DB, error) {
	var db *bun.DB
	switch cfg.DBDriver {
	case config.DriverPostgres:
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
		db = bun.NewDB(sqldb, pgdialect.New())
	case config.DriverSQLite:
		sqldb, err := sql.Open("sqlite3", cfg.SQLitePath+"?_foreign_keys=off&_busy_timeout=5000")
		if err != nil {
			return nil, fmt.Errorf("opening sqlite %s: %w", cfg.SQLitePath, err)
		}
		// One writer at a time.
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.DBDriver)
	}

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db, nil
}

// CreateTables creates all tables in dependency order.
// Composite natural keys come from the models' unique tag groups.
func CreateTables(ctx context.Context, db *bun.DB) error {
	for _, model := range Models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}
	return nil
}

// Package dbtest provides an in-memory store for package tests.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/iamnorbiato/F1App/db"
)

var seq atomic.Int64

// Open returns a fresh in-memory SQLite store with every table created.
func Open(t testing.TB) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:f1test%d?mode=memory&cache=shared", seq.Add(1))
	sqldb, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	bdb := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = bdb.Close() })

	require.NoError(t, db.CreateTables(context.Background(), bdb))
	return bdb
}

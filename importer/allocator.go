package importer

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Allocator hands out sequential primary keys for one table. It reads the
// current maximum once and then counts up in memory; ids are never handed
// out twice, even when the insert that used one fails.
type Allocator struct {
	next int
}

// NewAllocator starts issuing at start.
func NewAllocator(start int) *Allocator {
	if start < 1 {
		start = 1
	}
	return &Allocator{next: start}
}

// LoadAllocator starts issuing at MAX(column)+1, or 1 for an empty table.
func LoadAllocator(ctx context.Context, db bun.IDB, table, column string) (*Allocator, error) {
	var current int
	err := db.NewSelect().
		TableExpr("?", bun.Ident(table)).
		ColumnExpr("COALESCE(MAX(?), 0)", bun.Ident(column)).
		Scan(ctx, &current)
	if err != nil {
		return nil, fmt.Errorf("reading max %s.%s: %w", table, column, err)
	}
	return NewAllocator(current + 1), nil
}

// Next returns the next id and advances the counter.
func (a *Allocator) Next() int {
	id := a.next
	a.next++
	return id
}

// Peek returns the id Next would return.
func (a *Allocator) Peek() int { return a.next }

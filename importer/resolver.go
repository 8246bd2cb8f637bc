package importer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/iamnorbiato/F1App/models"
)

// ErrNotFound means a natural key has no row in the store yet.
var ErrNotFound = errors.New("not found")

// Resolver maps upstream natural keys to internal ids with point lookups.
type Resolver struct {
	db bun.IDB
}

func NewResolver(db bun.IDB) *Resolver {
	return &Resolver{db: db}
}

func (r *Resolver) lookup(ctx context.Context, model interface{}, column string, what string, q func(*bun.SelectQuery) *bun.SelectQuery) (int, error) {
	var id int
	err := q(r.db.NewSelect().Model(model).Column(column)).Limit(1).Scan(ctx, &id)
	switch {
	case err == nil:
		return id, nil
	case errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("%s: %w", what, ErrNotFound)
	default:
		return 0, fmt.Errorf("resolving %s: %w", what, err)
	}
}

func (r *Resolver) CircuitID(ctx context.Context, ref string) (int, error) {
	return r.lookup(ctx, (*models.Circuit)(nil), "circuitid", fmt.Sprintf("circuit %q", ref),
		func(q *bun.SelectQuery) *bun.SelectQuery { return q.Where("circuitref = ?", ref) })
}

func (r *Resolver) ConstructorID(ctx context.Context, ref string) (int, error) {
	return r.lookup(ctx, (*models.Constructor)(nil), "constructorid", fmt.Sprintf("constructor %q", ref),
		func(q *bun.SelectQuery) *bun.SelectQuery { return q.Where("constructorref = ?", ref) })
}

func (r *Resolver) DriverID(ctx context.Context, ref string) (int, error) {
	return r.lookup(ctx, (*models.Driver)(nil), "driverid", fmt.Sprintf("driver %q", ref),
		func(q *bun.SelectQuery) *bun.SelectQuery { return q.Where("driverref = ?", ref) })
}

func (r *Resolver) RaceID(ctx context.Context, year, round int) (int, error) {
	return r.lookup(ctx, (*models.Race)(nil), "raceid", fmt.Sprintf("race %d/%d", year, round),
		func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("? = ?", bun.Ident("year"), year).Where("? = ?", bun.Ident("round"), round)
		})
}

// StatusID resolves a finishing status by its text, as results carry it.
func (r *Resolver) StatusID(ctx context.Context, text string) (int, error) {
	return r.lookup(ctx, (*models.Status)(nil), "statusid", fmt.Sprintf("status %q", text),
		func(q *bun.SelectQuery) *bun.SelectQuery { return q.Where("status = ?", text).Order("statusid") })
}

// Rounds lists the rounds of year present in the races table.
func (r *Resolver) Rounds(ctx context.Context, year int) ([]int, error) {
	var rounds []int
	err := r.db.NewSelect().
		Model((*models.Race)(nil)).
		Column("round").
		Where("? = ?", bun.Ident("year"), year).
		Order("round").
		Scan(ctx, &rounds)
	if err != nil {
		return nil, fmt.Errorf("listing rounds of %d: %w", year, err)
	}
	return rounds, nil
}

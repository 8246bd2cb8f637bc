package importer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/iamnorbiato/F1App/db"
)

// entity describes how one model type is keyed, allocated and merged.
type entity[M any] struct {
	name string
	// alloc is nil for models whose primary key comes from upstream.
	alloc *Allocator
	setID func(m *M, id int)
	// key narrows a select to the row sharing m's natural key.
	key func(q *bun.SelectQuery, m *M) *bun.SelectQuery
	// merge copies the mutable fields of src into dst and returns the
	// columns that changed.
	merge func(dst, src *M) []string
}

// reconcile makes the store reflect rec: update the row with the same
// natural key, or insert rec under a freshly allocated id. The lookup and
// the write share one transaction.
//
// On a unique violation the natural key is looked up again. If a concurrent
// writer stored it, the outcome is Existing with the violation returned for
// logging. Otherwise the allocated id collided with another row, and the
// record is Errored.
func reconcile[M any](ctx context.Context, store *bun.DB, e entity[M], rec *M) (Outcome, error) {
	var outcome Outcome
	err := store.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current := new(M)
		err := e.key(tx.NewSelect().Model(current), rec).Limit(1).Scan(ctx)
		switch {
		case err == nil:
			changed := e.merge(current, rec)
			if len(changed) == 0 {
				outcome = Existing
				return nil
			}
			if _, err := tx.NewUpdate().Model(current).Column(changed...).WherePK().Exec(ctx); err != nil {
				return err
			}
			outcome = Updated
			return nil

		case errors.Is(err, sql.ErrNoRows):
			if e.alloc != nil {
				e.setID(rec, e.alloc.Next())
			}
			if _, err := tx.NewInsert().Model(rec).Exec(ctx); err != nil {
				return err
			}
			outcome = Created
			return nil

		default:
			return err
		}
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return afterViolation(ctx, store, e, rec, err)
		}
		return Errored, err
	}
	return outcome, nil
}

func afterViolation[M any](ctx context.Context, store *bun.DB, e entity[M], rec *M, violation error) (Outcome, error) {
	n, err := e.key(store.NewSelect().Model((*M)(nil)), rec).Count(ctx)
	if err != nil {
		return Errored, fmt.Errorf("%s: checking key after %v: %w", e.name, violation, err)
	}
	if n == 0 {
		return Errored, fmt.Errorf("%s: primary key collision: %w", e.name, violation)
	}
	return Existing, fmt.Errorf("%s: %w", e.name, violation)
}

// eq matches col against v.
func eq(q *bun.SelectQuery, col string, v interface{}) *bun.SelectQuery {
	return q.Where("?TableAlias.? = ?", bun.Ident(col), v)
}

// eqNullable is eq with a nil pointer matching SQL NULL.
func eqNullable[T any](q *bun.SelectQuery, col string, v *T) *bun.SelectQuery {
	if v == nil {
		return q.Where("?TableAlias.? IS NULL", bun.Ident(col))
	}
	return eq(q, col, *v)
}

// Package importer synchronises upstream racing statistics into the store.
//
// Every run follows the same shape: take the entity's run lock, fetch every
// page of the resource, resolve natural keys of referenced entities, and
// reconcile each record into an insert or an update. Per-record problems are
// counted and skipped; only fetch, lock and allocator failures end a run early.
package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/iamnorbiato/F1App/db"
	"github.com/iamnorbiato/F1App/ergast"
)

// Source is the upstream API as the importers consume it.
type Source interface {
	Circuits(ctx context.Context) ([]ergast.Circuit, error)
	Seasons(ctx context.Context) ([]ergast.Season, error)
	Statuses(ctx context.Context) ([]ergast.Status, error)
	Races(ctx context.Context, year int) ([]ergast.Race, error)
	Constructors(ctx context.Context, year int) ([]ergast.Constructor, error)
	Drivers(ctx context.Context, year int) ([]ergast.Driver, error)
	Results(ctx context.Context, year int) ([]ergast.RaceResult, error)
	SprintResults(ctx context.Context, year int) ([]ergast.RaceResult, error)
	Qualifying(ctx context.Context, year int) ([]ergast.RaceQualifying, error)
	DriverStandings(ctx context.Context, year, round int) ([]ergast.RoundDriverStanding, error)
	ConstructorStandings(ctx context.Context, year, round int) ([]ergast.RoundConstructorStanding, error)
	PitStops(ctx context.Context, year, round int) ([]ergast.RacePitStop, error)
	LapTimes(ctx context.Context, year, round int) ([]ergast.RaceLapTiming, error)
}

var _ Source = (*ergast.Client)(nil)

// Observer receives every finished run summary.
type Observer interface {
	ObserveSummary(s *Summary, err error)
}

// Importer runs one entity import at a time against a store.
type Importer struct {
	db       *bun.DB
	src      Source
	resolve  *Resolver
	log      *zap.Logger
	observer Observer
	owner    string
	lockTTL  time.Duration
}

type Option func(*Importer)

// WithObserver reports each run summary to o.
func WithObserver(o Observer) Option {
	return func(im *Importer) { im.observer = o }
}

// WithLockTTL bounds how long a crashed run can block the next one.
func WithLockTTL(ttl time.Duration) Option {
	return func(im *Importer) { im.lockTTL = ttl }
}

func New(store *bun.DB, src Source, log *zap.Logger, opts ...Option) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	im := &Importer{
		db:      store,
		src:     src,
		resolve: NewResolver(store),
		log:     log.Named("importer"),
		owner:   uuid.NewString(),
		lockTTL: 2 * time.Hour,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// run wraps fn with the entity's run lock and summary bookkeeping. The lock
// is renewed while fn runs; if it is lost, fn's context is cancelled and
// the run fails with db.ErrLockLost.
func (im *Importer) run(ctx context.Context, name string, fn func(ctx context.Context, s *Summary) error) (*Summary, error) {
	s := &Summary{Entity: name, Started: time.Now()}
	log := im.log.With(zap.String("entity", name))

	err := db.AcquireLock(ctx, im.db, name, im.owner, im.lockTTL)
	if err == nil {
		log.Info("import started")

		runCtx, cancel := context.WithCancelCause(ctx)
		stop := im.keepLock(runCtx, cancel, name, log)
		err = fn(runCtx, s)
		stop()
		if cause := context.Cause(runCtx); errors.Is(cause, db.ErrLockLost) {
			err = errors.Join(err, cause)
		}
		cancel(nil)

		if rerr := db.ReleaseLock(context.WithoutCancel(ctx), im.db, name, im.owner); rerr != nil {
			log.Error("release lock", zap.Error(rerr))
		}
	}
	s.Finished = time.Now()

	if err != nil {
		log.Error("import failed", append(s.Fields(), zap.Error(err))...)
	} else {
		log.Info("import finished", s.Fields()...)
	}
	if im.observer != nil {
		im.observer.ObserveSummary(s, err)
	}
	return s, err
}

// keepLock renews the run lock every third of its TTL until the returned
// stop func is called. Losing the lock cancels ctx with db.ErrLockLost.
func (im *Importer) keepLock(ctx context.Context, cancel context.CancelCauseFunc, name string, log *zap.Logger) (stop func()) {
	every := im.lockTTL / 3
	if every <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				err := db.RenewLock(ctx, im.db, name, im.owner, im.lockTTL)
				switch {
				case err == nil:
				case errors.Is(err, db.ErrLockLost):
					log.Error("run lock lost", zap.Error(err))
					cancel(err)
					return
				default:
					// Transient; retried on the next tick.
					log.Warn("renew lock", zap.Error(err))
				}
			}
		}
	}()
	return func() {
		close(done)
		wg.Wait()
	}
}

// fetchFailed counts every record the aborted resource was expected to hold.
func (im *Importer) fetchFailed(s *Summary, err error) error {
	var fe *ergast.FetchError
	if errors.As(err, &fe) {
		s.Errored += fe.Total
	}
	return fmt.Errorf("%s: %w", s.Entity, err)
}

// skip records a record that could not be turned into a row.
func (im *Importer) skip(s *Summary, err error, fields ...zap.Field) {
	s.Add(Errored)
	im.log.Warn("record skipped", append(fields, zap.String("entity", s.Entity), zap.Error(err))...)
}

// apply reconciles rec and tallies the outcome.
func apply[M any](ctx context.Context, im *Importer, s *Summary, e entity[M], rec *M, fields ...zap.Field) {
	outcome, err := reconcile(ctx, im.db, e, rec)
	s.Add(outcome)

	fields = append(fields, zap.String("entity", e.name), zap.Stringer("outcome", outcome))
	switch {
	case outcome == Errored:
		im.log.Error("record failed", append(fields, zap.Error(err))...)
	case err != nil:
		im.log.Warn("record inserted concurrently", append(fields, zap.Error(err))...)
	case outcome == Created, outcome == Updated:
		im.log.Debug("record reconciled", fields...)
	}
}

// rounds returns the single requested round, or every round of year in the
// races table when round is 0.
func (im *Importer) rounds(ctx context.Context, year, round int) ([]int, error) {
	if round > 0 {
		return []int{round}, nil
	}
	return im.resolve.Rounds(ctx, year)
}

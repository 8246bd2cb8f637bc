package importer

import (
	"context"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/iamnorbiato/F1App/ergast"
	"github.com/iamnorbiato/F1App/models"
)

// resultRefs are the internal ids a result row points at.
type resultRefs struct {
	raceID, driverID, constructorID, statusID int
}

func (im *Importer) resolveResult(ctx context.Context, r ergast.RaceResult) (resultRefs, error) {
	var (
		refs resultRefs
		err  error
	)
	year, round, err := raceKey(r.RaceRef)
	if err != nil {
		return refs, err
	}
	if refs.raceID, err = im.resolve.RaceID(ctx, year, round); err != nil {
		return refs, err
	}
	if refs.driverID, err = im.resolve.DriverID(ctx, r.Driver.DriverID); err != nil {
		return refs, err
	}
	if refs.constructorID, err = im.resolve.ConstructorID(ctx, r.Constructor.ConstructorID); err != nil {
		return refs, err
	}
	if refs.statusID, err = im.resolve.StatusID(ctx, r.Status); err != nil {
		return refs, err
	}
	return refs, nil
}

// resultFields holds the parsed values shared by race and sprint results.
type resultFields struct {
	number, grid, laps                         *int
	points                                     *float64
	position, positionText, time, milliseconds *string
	fastestLap, rank, fastestLapTime, lapSpeed *string
}

func parseResult(r ergast.Result) (resultFields, error) {
	var (
		f   resultFields
		err error
	)
	if f.number, err = optInt("number", r.Number); err != nil {
		return f, err
	}
	if f.grid, err = optInt("grid", r.Grid); err != nil {
		return f, err
	}
	if f.laps, err = optInt("laps", r.Laps); err != nil {
		return f, err
	}
	if f.points, err = optFloat("points", r.Points); err != nil {
		return f, err
	}
	f.position = optStr(r.Position)
	f.positionText = optStr(r.PositionText)
	if r.Time != nil {
		f.time = optStr(r.Time.Time)
		f.milliseconds = optStr(r.Time.Millis)
	}
	if fl := r.FastestLap; fl != nil {
		f.fastestLap = optStr(fl.Lap)
		f.rank = optStr(fl.Rank)
		if fl.Time != nil {
			f.fastestLapTime = optStr(fl.Time.Time)
		}
		if fl.AverageSpeed != nil {
			f.lapSpeed = optStr(fl.AverageSpeed.Speed)
		}
	}
	return f, nil
}

// classified numbers finishers per race in the order upstream lists them,
// which is the classification order.
type classified map[ergast.RaceRef]int

func (c classified) next(ref ergast.RaceRef) int {
	c[ref]++
	return c[ref]
}

func resultEntity(alloc *Allocator) entity[models.Result] {
	return entity[models.Result]{
		name:  "results",
		alloc: alloc,
		setID: func(m *models.Result, id int) { m.ResultID = id },
		key: func(q *bun.SelectQuery, m *models.Result) *bun.SelectQuery {
			q = eq(q, "raceid", m.RaceID)
			q = eq(q, "driverid", m.DriverID)
			q = eq(q, "constructorid", m.ConstructorID)
			return eqNullable(q, "number", m.Number)
		},
		merge: func(dst, src *models.Result) []string {
			var c changes
			setPtr(&c, "statusid", &dst.StatusID, src.StatusID)
			setPtr(&c, "grid", &dst.Grid, src.Grid)
			setPtr(&c, "position", &dst.Position, src.Position)
			setPtr(&c, "positiontext", &dst.PositionText, src.PositionText)
			setPtr(&c, "positionorder", &dst.PositionOrder, src.PositionOrder)
			setPtr(&c, "points", &dst.Points, src.Points)
			setPtr(&c, "laps", &dst.Laps, src.Laps)
			setPtr(&c, "time", &dst.Time, src.Time)
			setPtr(&c, "milliseconds", &dst.Milliseconds, src.Milliseconds)
			setPtr(&c, "fastestlap", &dst.FastestLap, src.FastestLap)
			setPtr(&c, "rank", &dst.Rank, src.Rank)
			setPtr(&c, "fastestlaptime", &dst.FastestLapTime, src.FastestLapTime)
			setPtr(&c, "fastestlapspeed", &dst.FastestLapSpeed, src.FastestLapSpeed)
			return c
		},
	}
}

// Results imports every race result of year.
func (im *Importer) Results(ctx context.Context, year int) (*Summary, error) {
	return im.run(ctx, "results", func(ctx context.Context, s *Summary) error {
		alloc, err := LoadAllocator(ctx, im.db, "results", "resultid")
		if err != nil {
			return err
		}
		items, err := im.src.Results(ctx, year)
		if err != nil {
			return im.fetchFailed(s, err)
		}

		e := resultEntity(alloc)
		order := classified{}
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			positionOrder := order.next(item.RaceRef)
			ref := []zap.Field{
				zap.String("race", item.Season+"/"+item.Round),
				zap.String("driverRef", item.Driver.DriverID),
			}

			refs, err := im.resolveResult(ctx, item)
			if err != nil {
				im.skip(s, err, ref...)
				continue
			}
			f, err := parseResult(item.Result)
			if err != nil {
				im.skip(s, err, ref...)
				continue
			}

			rec := &models.Result{
				RaceID:          refs.raceID,
				DriverID:        refs.driverID,
				ConstructorID:   refs.constructorID,
				Number:          f.number,
				StatusID:        intPtr(refs.statusID),
				Grid:            f.grid,
				Position:        f.position,
				PositionText:    f.positionText,
				PositionOrder:   intPtr(positionOrder),
				Points:          f.points,
				Laps:            f.laps,
				Time:            f.time,
				Milliseconds:    f.milliseconds,
				FastestLap:      f.fastestLap,
				Rank:            f.rank,
				FastestLapTime:  f.fastestLapTime,
				FastestLapSpeed: f.lapSpeed,
			}
			apply(ctx, im, s, e, rec, ref...)
		}
		return nil
	})
}

func sprintResultEntity(alloc *Allocator) entity[models.SprintResult] {
	return entity[models.SprintResult]{
		name:  "sprint_results",
		alloc: alloc,
		setID: func(m *models.SprintResult, id int) { m.ResultID = id },
		key: func(q *bun.SelectQuery, m *models.SprintResult) *bun.SelectQuery {
			return eq(eq(q, "raceid", m.RaceID), "driverid", m.DriverID)
		},
		merge: func(dst, src *models.SprintResult) []string {
			var c changes
			setPtr(&c, "constructorid", &dst.ConstructorID, src.ConstructorID)
			setPtr(&c, "statusid", &dst.StatusID, src.StatusID)
			setPtr(&c, "number", &dst.Number, src.Number)
			setPtr(&c, "grid", &dst.Grid, src.Grid)
			setPtr(&c, "position", &dst.Position, src.Position)
			setPtr(&c, "positiontext", &dst.PositionText, src.PositionText)
			setPtr(&c, "positionorder", &dst.PositionOrder, src.PositionOrder)
			setPtr(&c, "points", &dst.Points, src.Points)
			setPtr(&c, "laps", &dst.Laps, src.Laps)
			setPtr(&c, "time", &dst.Time, src.Time)
			setPtr(&c, "milliseconds", &dst.Milliseconds, src.Milliseconds)
			setPtr(&c, "fastestlap", &dst.FastestLap, src.FastestLap)
			setPtr(&c, "rank", &dst.Rank, src.Rank)
			setPtr(&c, "fastestlaptime", &dst.FastestLapTime, src.FastestLapTime)
			return c
		},
	}
}

// SprintResults imports every sprint result of year.
func (im *Importer) SprintResults(ctx context.Context, year int) (*Summary, error) {
	return im.run(ctx, "sprint_results", func(ctx context.Context, s *Summary) error {
		alloc, err := LoadAllocator(ctx, im.db, "sprint_results", "resultid")
		if err != nil {
			return err
		}
		items, err := im.src.SprintResults(ctx, year)
		if err != nil {
			return im.fetchFailed(s, err)
		}

		e := sprintResultEntity(alloc)
		order := classified{}
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			positionOrder := order.next(item.RaceRef)
			ref := []zap.Field{
				zap.String("race", item.Season+"/"+item.Round),
				zap.String("driverRef", item.Driver.DriverID),
			}

			refs, err := im.resolveResult(ctx, item)
			if err != nil {
				im.skip(s, err, ref...)
				continue
			}
			f, err := parseResult(item.Result)
			if err != nil {
				im.skip(s, err, ref...)
				continue
			}

			rec := &models.SprintResult{
				RaceID:         refs.raceID,
				DriverID:       refs.driverID,
				ConstructorID:  intPtr(refs.constructorID),
				StatusID:       intPtr(refs.statusID),
				Number:         f.number,
				Grid:           f.grid,
				Position:       f.position,
				PositionText:   f.positionText,
				PositionOrder:  intPtr(positionOrder),
				Points:         f.points,
				Laps:           f.laps,
				Time:           f.time,
				Milliseconds:   f.milliseconds,
				FastestLap:     f.fastestLap,
				Rank:           f.rank,
				FastestLapTime: f.fastestLapTime,
			}
			apply(ctx, im, s, e, rec, ref...)
		}
		return nil
	})
}

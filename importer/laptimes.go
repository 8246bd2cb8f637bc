package importer

import (
	"context"
	"errors"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/iamnorbiato/F1App/ergast"
	"github.com/iamnorbiato/F1App/models"
	"github.com/iamnorbiato/F1App/timing"
)

func lapTimeEntity(alloc *Allocator) entity[models.LapTime] {
	return entity[models.LapTime]{
		name:  "lap_times",
		alloc: alloc,
		setID: func(m *models.LapTime, id int) { m.LapTimeID = id },
		key: func(q *bun.SelectQuery, m *models.LapTime) *bun.SelectQuery {
			return eq(eq(eq(q, "raceid", m.RaceID), "driverid", m.DriverID), "lap", m.Lap)
		},
		merge: func(dst, src *models.LapTime) []string {
			var c changes
			set(&c, "position", &dst.Position, src.Position)
			setPtr(&c, "time", &dst.Time, src.Time)
			setPtr(&c, "milliseconds", &dst.Milliseconds, src.Milliseconds)
			return c
		},
	}
}

// LapTimes imports the lap timings of one round of year, or of every round
// of year already in the races table when round is 0. Upstream pages are
// fetched with a fixed delay between them.
func (im *Importer) LapTimes(ctx context.Context, year, round int) (*Summary, error) {
	return im.run(ctx, "lap_times", func(ctx context.Context, s *Summary) error {
		rounds, err := im.rounds(ctx, year, round)
		if err != nil {
			return err
		}
		if len(rounds) == 0 {
			im.log.Warn("no races stored for year, import races first", zap.Int("year", year))
			return nil
		}
		alloc, err := LoadAllocator(ctx, im.db, "lap_times", "lap_timeid")
		if err != nil {
			return err
		}

		e := lapTimeEntity(alloc)
		var errs []error
		for _, rnd := range rounds {
			im.log.Info("fetching lap times", zap.Int("year", year), zap.Int("round", rnd))
			items, err := im.src.LapTimes(ctx, year, rnd)
			if err != nil {
				errs = append(errs, im.fetchFailed(s, err))
				if ctx.Err() != nil {
					break
				}
				continue
			}

			raceID, err := im.resolve.RaceID(ctx, year, rnd)
			if err != nil {
				s.Errored += len(items)
				im.log.Warn("round skipped", zap.Int("year", year), zap.Int("round", rnd), zap.Error(err))
				continue
			}

			for _, item := range items {
				if err := ctx.Err(); err != nil {
					return errors.Join(append(errs, err)...)
				}
				ref := []zap.Field{
					zap.Int("round", rnd),
					zap.String("driverRef", item.DriverID),
					zap.String("lap", item.Lap),
				}

				rec, err := im.lapTimeRecord(ctx, raceID, item)
				if err != nil {
					im.skip(s, err, ref...)
					continue
				}
				apply(ctx, im, s, e, rec, ref...)
			}
		}
		return errors.Join(errs...)
	})
}

func (im *Importer) lapTimeRecord(ctx context.Context, raceID int, lt ergast.RaceLapTiming) (*models.LapTime, error) {
	driverID, err := im.resolve.DriverID(ctx, lt.DriverID)
	if err != nil {
		return nil, err
	}
	lap, err := reqInt("lap", lt.Lap)
	if err != nil {
		return nil, err
	}
	position, err := reqInt("position", lt.Position)
	if err != nil {
		return nil, err
	}
	rec := &models.LapTime{
		RaceID:   raceID,
		DriverID: driverID,
		Lap:      lap,
		Position: position,
		Time:     optStr(lt.Time),
	}
	if ms, ok := timing.ParseLapTime(lt.Time); ok {
		rec.Milliseconds = &ms
	}
	return rec, nil
}

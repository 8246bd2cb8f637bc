package importer

import (
	"context"
	"errors"
	"strconv"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/iamnorbiato/F1App/ergast"
	"github.com/iamnorbiato/F1App/models"
	"github.com/iamnorbiato/F1App/timing"
)

func pitStopEntity(alloc *Allocator) entity[models.PitStop] {
	return entity[models.PitStop]{
		name:  "pit_stops",
		alloc: alloc,
		setID: func(m *models.PitStop, id int) { m.PitStopID = id },
		key: func(q *bun.SelectQuery, m *models.PitStop) *bun.SelectQuery {
			return eq(eq(eq(q, "raceid", m.RaceID), "driverid", m.DriverID), "stop", m.Stop)
		},
		merge: func(dst, src *models.PitStop) []string {
			var c changes
			setPtr(&c, "lap", &dst.Lap, src.Lap)
			setPtr(&c, "time", &dst.Time, src.Time)
			setPtr(&c, "duration", &dst.Duration, src.Duration)
			setPtr(&c, "milliseconds", &dst.Milliseconds, src.Milliseconds)
			return c
		},
	}
}

// stopDuration derives the stored duration ("MM:SS.mmm") and millisecond
// digits. Upstream millis win; otherwise the published duration is parsed.
// Unparseable durations are kept verbatim with no milliseconds.
func stopDuration(ps ergast.PitStop) (duration, millis *string) {
	if formatted, ok := timing.FormatMillisString(ps.Milliseconds); ok {
		return &formatted, optStr(ps.Milliseconds)
	}
	if ms, ok := timing.ParseStopDuration(ps.Duration); ok {
		formatted := timing.FormatMillis(ms)
		digits := strconv.Itoa(ms)
		return &formatted, &digits
	}
	return optStr(ps.Duration), nil
}

// PitStops imports the pit stops of one round of year, or of every round of
// year already in the races table when round is 0.
func (im *Importer) PitStops(ctx context.Context, year, round int) (*Summary, error) {
	return im.run(ctx, "pit_stops", func(ctx context.Context, s *Summary) error {
		rounds, err := im.rounds(ctx, year, round)
		if err != nil {
			return err
		}
		if len(rounds) == 0 {
			im.log.Warn("no races stored for year, import races first", zap.Int("year", year))
			return nil
		}
		alloc, err := LoadAllocator(ctx, im.db, "pit_stops", "pit_stopid")
		if err != nil {
			return err
		}

		e := pitStopEntity(alloc)
		var errs []error
		for _, rnd := range rounds {
			items, err := im.src.PitStops(ctx, year, rnd)
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
					zap.String("stop", item.Stop),
				}

				rec, err := im.pitStopRecord(ctx, raceID, item)
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

func (im *Importer) pitStopRecord(ctx context.Context, raceID int, ps ergast.RacePitStop) (*models.PitStop, error) {
	driverID, err := im.resolve.DriverID(ctx, ps.DriverID)
	if err != nil {
		return nil, err
	}
	stop, err := reqInt("stop", ps.Stop)
	if err != nil {
		return nil, err
	}
	lap, err := optInt("lap", ps.Lap)
	if err != nil {
		return nil, err
	}
	rec := &models.PitStop{
		RaceID:   raceID,
		DriverID: driverID,
		Stop:     stop,
		Lap:      lap,
		Time:     optStr(ps.Time),
	}
	rec.Duration, rec.Milliseconds = stopDuration(ps.PitStop)
	return rec, nil
}

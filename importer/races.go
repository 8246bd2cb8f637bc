package importer

import (
	"context"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/iamnorbiato/F1App/ergast"
	"github.com/iamnorbiato/F1App/models"
)

func raceEntity(alloc *Allocator) entity[models.Race] {
	return entity[models.Race]{
		name:  "races",
		alloc: alloc,
		setID: func(m *models.Race, id int) { m.RaceID = id },
		key: func(q *bun.SelectQuery, m *models.Race) *bun.SelectQuery {
			return eq(eq(q, "year", m.Year), "round", m.Round)
		},
		merge: func(dst, src *models.Race) []string {
			var c changes
			setPtr(&c, "circuitid", &dst.CircuitID, src.CircuitID)
			set(&c, "name", &dst.Name, src.Name)
			set(&c, "date", &dst.Date, src.Date)
			setPtr(&c, "time", &dst.Time, src.Time)
			setPtr(&c, "url", &dst.URL, src.URL)
			setPtr(&c, "fp1_date", &dst.FP1Date, src.FP1Date)
			setPtr(&c, "fp1_time", &dst.FP1Time, src.FP1Time)
			setPtr(&c, "fp2_date", &dst.FP2Date, src.FP2Date)
			setPtr(&c, "fp2_time", &dst.FP2Time, src.FP2Time)
			setPtr(&c, "fp3_date", &dst.FP3Date, src.FP3Date)
			setPtr(&c, "fp3_time", &dst.FP3Time, src.FP3Time)
			setPtr(&c, "quali_date", &dst.QualiDate, src.QualiDate)
			setPtr(&c, "quali_time", &dst.QualiTime, src.QualiTime)
			setPtr(&c, "sprint_date", &dst.SprintDate, src.SprintDate)
			setPtr(&c, "sprint_time", &dst.SprintTime, src.SprintTime)
			return c
		},
	}
}

func session(s *ergast.Session) (date, tm *string) {
	if s == nil {
		return nil, nil
	}
	return optStr(s.Date), optStr(s.Time)
}

// Races imports the calendar of year. Each race's circuit reference is
// resolved to the internal circuit id; races at unknown circuits are skipped.
func (im *Importer) Races(ctx context.Context, year int) (*Summary, error) {
	return im.run(ctx, "races", func(ctx context.Context, s *Summary) error {
		alloc, err := LoadAllocator(ctx, im.db, "races", "raceid")
		if err != nil {
			return err
		}
		items, err := im.src.Races(ctx, year)
		if err != nil {
			return im.fetchFailed(s, err)
		}

		e := raceEntity(alloc)
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			ref := zap.String("race", item.Season+"/"+item.Round)

			raceYear, round, err := raceKey(ergast.RaceRef{Season: item.Season, Round: item.Round})
			if err != nil {
				im.skip(s, err, ref)
				continue
			}
			circuitID, err := im.resolve.CircuitID(ctx, item.Circuit.CircuitID)
			if err != nil {
				im.skip(s, err, ref)
				continue
			}

			rec := &models.Race{
				Year:      raceYear,
				Round:     round,
				CircuitID: intPtr(circuitID),
				Name:      item.RaceName,
				Date:      item.Date,
				Time:      optStr(item.Time),
				URL:       optStr(item.URL),
			}
			rec.FP1Date, rec.FP1Time = session(item.FirstPractice)
			rec.FP2Date, rec.FP2Time = session(item.SecondPractice)
			rec.FP3Date, rec.FP3Time = session(item.ThirdPractice)
			rec.QualiDate, rec.QualiTime = session(item.Qualifying)
			rec.SprintDate, rec.SprintTime = session(item.Sprint)

			apply(ctx, im, s, e, rec, ref)
		}
		return nil
	})
}

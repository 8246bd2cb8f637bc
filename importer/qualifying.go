package importer

import (
	"context"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/iamnorbiato/F1App/ergast"
	"github.com/iamnorbiato/F1App/models"
)

func qualifyingEntity(alloc *Allocator) entity[models.Qualifying] {
	return entity[models.Qualifying]{
		name:  "qualifying",
		alloc: alloc,
		setID: func(m *models.Qualifying, id int) { m.QualifyID = id },
		key: func(q *bun.SelectQuery, m *models.Qualifying) *bun.SelectQuery {
			return eq(eq(q, "raceid", m.RaceID), "driverid", m.DriverID)
		},
		merge: func(dst, src *models.Qualifying) []string {
			var c changes
			setPtr(&c, "constructorid", &dst.ConstructorID, src.ConstructorID)
			setPtr(&c, "number", &dst.Number, src.Number)
			setPtr(&c, "position", &dst.Position, src.Position)
			setPtr(&c, "q1", &dst.Q1, src.Q1)
			setPtr(&c, "q2", &dst.Q2, src.Q2)
			setPtr(&c, "q3", &dst.Q3, src.Q3)
			return c
		},
	}
}

// Qualifying imports every qualifying entry of year.
func (im *Importer) Qualifying(ctx context.Context, year int) (*Summary, error) {
	return im.run(ctx, "qualifying", func(ctx context.Context, s *Summary) error {
		alloc, err := LoadAllocator(ctx, im.db, "qualifying", "qualifyid")
		if err != nil {
			return err
		}
		items, err := im.src.Qualifying(ctx, year)
		if err != nil {
			return im.fetchFailed(s, err)
		}

		e := qualifyingEntity(alloc)
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			ref := []zap.Field{
				zap.String("race", item.Season+"/"+item.Round),
				zap.String("driverRef", item.Driver.DriverID),
			}

			rec, err := im.qualifyingRecord(ctx, item.RaceRef, item.Driver.DriverID, item.Constructor.ConstructorID)
			if err != nil {
				im.skip(s, err, ref...)
				continue
			}
			if rec.Number, err = optInt("number", item.Number); err != nil {
				im.skip(s, err, ref...)
				continue
			}
			if rec.Position, err = optInt("position", item.Position); err != nil {
				im.skip(s, err, ref...)
				continue
			}
			rec.Q1 = optStr(item.Q1)
			rec.Q2 = optStr(item.Q2)
			rec.Q3 = optStr(item.Q3)

			apply(ctx, im, s, e, rec, ref...)
		}
		return nil
	})
}

// qualifyingRecord resolves the race, driver and constructor of an entry.
func (im *Importer) qualifyingRecord(ctx context.Context, race ergast.RaceRef, driverRef, constructorRef string) (*models.Qualifying, error) {
	year, rnd, err := raceKey(race)
	if err != nil {
		return nil, err
	}
	raceID, err := im.resolve.RaceID(ctx, year, rnd)
	if err != nil {
		return nil, err
	}
	driverID, err := im.resolve.DriverID(ctx, driverRef)
	if err != nil {
		return nil, err
	}
	constructorID, err := im.resolve.ConstructorID(ctx, constructorRef)
	if err != nil {
		return nil, err
	}
	return &models.Qualifying{
		RaceID:        raceID,
		DriverID:      driverID,
		ConstructorID: intPtr(constructorID),
	}, nil
}

package importer

import (
	"context"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/iamnorbiato/F1App/ergast"
	"github.com/iamnorbiato/F1App/models"
)

// standingFields are the mutable values shared by both championship tables.
type standingFields struct {
	points       *float64
	position     *int
	positionText *string
	wins         *int
}

func parseStanding(points, position, positionText, wins string) (standingFields, error) {
	var (
		f   standingFields
		err error
	)
	if f.points, err = optFloat("points", points); err != nil {
		return f, err
	}
	if f.position, err = optInt("position", position); err != nil {
		return f, err
	}
	if f.wins, err = optInt("wins", wins); err != nil {
		return f, err
	}
	f.positionText = optStr(positionText)
	return f, nil
}

func (im *Importer) standingRace(ctx context.Context, ref ergast.RaceRef) (int, error) {
	year, round, err := raceKey(ref)
	if err != nil {
		return 0, err
	}
	return im.resolve.RaceID(ctx, year, round)
}

func driverStandingEntity(alloc *Allocator) entity[models.DriverStanding] {
	return entity[models.DriverStanding]{
		name:  "driver_standings",
		alloc: alloc,
		setID: func(m *models.DriverStanding, id int) { m.DriverStandingsID = id },
		key: func(q *bun.SelectQuery, m *models.DriverStanding) *bun.SelectQuery {
			return eq(eq(q, "raceid", m.RaceID), "driverid", m.DriverID)
		},
		merge: func(dst, src *models.DriverStanding) []string {
			var c changes
			setPtr(&c, "points", &dst.Points, src.Points)
			setPtr(&c, "position", &dst.Position, src.Position)
			setPtr(&c, "positiontext", &dst.PositionText, src.PositionText)
			setPtr(&c, "wins", &dst.Wins, src.Wins)
			return c
		},
	}
}

// DriverStandings imports the drivers' championship table of year after
// round, or the latest table when round is 0.
func (im *Importer) DriverStandings(ctx context.Context, year, round int) (*Summary, error) {
	return im.run(ctx, "driver_standings", func(ctx context.Context, s *Summary) error {
		alloc, err := LoadAllocator(ctx, im.db, "driver_standings", "driverstandingsid")
		if err != nil {
			return err
		}
		items, err := im.src.DriverStandings(ctx, year, round)
		if err != nil {
			return im.fetchFailed(s, err)
		}

		e := driverStandingEntity(alloc)
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			ref := []zap.Field{
				zap.String("race", item.Season+"/"+item.Round),
				zap.String("driverRef", item.Driver.DriverID),
			}

			raceID, err := im.standingRace(ctx, item.RaceRef)
			if err != nil {
				im.skip(s, err, ref...)
				continue
			}
			driverID, err := im.resolve.DriverID(ctx, item.Driver.DriverID)
			if err != nil {
				im.skip(s, err, ref...)
				continue
			}
			f, err := parseStanding(item.Points, item.Position, item.PositionText, item.Wins)
			if err != nil {
				im.skip(s, err, ref...)
				continue
			}

			rec := &models.DriverStanding{
				RaceID:       raceID,
				DriverID:     driverID,
				Points:       f.points,
				Position:     f.position,
				PositionText: f.positionText,
				Wins:         f.wins,
			}
			apply(ctx, im, s, e, rec, ref...)
		}
		return nil
	})
}

func constructorStandingEntity(alloc *Allocator) entity[models.ConstructorStanding] {
	return entity[models.ConstructorStanding]{
		name:  "constructor_standings",
		alloc: alloc,
		setID: func(m *models.ConstructorStanding, id int) { m.ConstructorStandingsID = id },
		key: func(q *bun.SelectQuery, m *models.ConstructorStanding) *bun.SelectQuery {
			return eq(eq(q, "raceid", m.RaceID), "constructorid", m.ConstructorID)
		},
		merge: func(dst, src *models.ConstructorStanding) []string {
			var c changes
			setPtr(&c, "points", &dst.Points, src.Points)
			setPtr(&c, "position", &dst.Position, src.Position)
			setPtr(&c, "positiontext", &dst.PositionText, src.PositionText)
			setPtr(&c, "wins", &dst.Wins, src.Wins)
			return c
		},
	}
}

// ConstructorStandings imports the constructors' championship table of year
// after round, or the latest table when round is 0.
func (im *Importer) ConstructorStandings(ctx context.Context, year, round int) (*Summary, error) {
	return im.run(ctx, "constructor_standings", func(ctx context.Context, s *Summary) error {
		alloc, err := LoadAllocator(ctx, im.db, "constructor_standings", "constructorstandingsid")
		if err != nil {
			return err
		}
		items, err := im.src.ConstructorStandings(ctx, year, round)
		if err != nil {
			return im.fetchFailed(s, err)
		}

		e := constructorStandingEntity(alloc)
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			ref := []zap.Field{
				zap.String("race", item.Season+"/"+item.Round),
				zap.String("constructorRef", item.Constructor.ConstructorID),
			}

			raceID, err := im.standingRace(ctx, item.RaceRef)
			if err != nil {
				im.skip(s, err, ref...)
				continue
			}
			constructorID, err := im.resolve.ConstructorID(ctx, item.Constructor.ConstructorID)
			if err != nil {
				im.skip(s, err, ref...)
				continue
			}
			f, err := parseStanding(item.Points, item.Position, item.PositionText, item.Wins)
			if err != nil {
				im.skip(s, err, ref...)
				continue
			}

			rec := &models.ConstructorStanding{
				RaceID:        raceID,
				ConstructorID: constructorID,
				Points:        f.points,
				Position:      f.position,
				PositionText:  f.positionText,
				Wins:          f.wins,
			}
			apply(ctx, im, s, e, rec, ref...)
		}
		return nil
	})
}

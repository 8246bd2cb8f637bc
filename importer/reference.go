package importer

import (
	"context"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/iamnorbiato/F1App/ergast"
	"github.com/iamnorbiato/F1App/models"
)

func circuitEntity(alloc *Allocator) entity[models.Circuit] {
	return entity[models.Circuit]{
		name:  "circuits",
		alloc: alloc,
		setID: func(m *models.Circuit, id int) { m.CircuitID = id },
		key: func(q *bun.SelectQuery, m *models.Circuit) *bun.SelectQuery {
			return eq(q, "circuitref", m.CircuitRef)
		},
		// alt is not published upstream and is left as loaded.
		merge: func(dst, src *models.Circuit) []string {
			var c changes
			set(&c, "name", &dst.Name, src.Name)
			setPtr(&c, "location", &dst.Location, src.Location)
			setPtr(&c, "country", &dst.Country, src.Country)
			setPtr(&c, "lat", &dst.Lat, src.Lat)
			setPtr(&c, "lng", &dst.Lng, src.Lng)
			setPtr(&c, "url", &dst.URL, src.URL)
			return c
		},
	}
}

func circuitRecord(c ergast.Circuit) (*models.Circuit, error) {
	lat, err := optFloat("lat", c.Location.Lat)
	if err != nil {
		return nil, err
	}
	lng, err := optFloat("long", c.Location.Long)
	if err != nil {
		return nil, err
	}
	return &models.Circuit{
		CircuitRef: c.CircuitID,
		Name:       c.CircuitName,
		Location:   optStr(c.Location.Locality),
		Country:    optStr(c.Location.Country),
		Lat:        lat,
		Lng:        lng,
		URL:        optStr(c.URL),
	}, nil
}

// Circuits imports every circuit.
func (im *Importer) Circuits(ctx context.Context) (*Summary, error) {
	return im.run(ctx, "circuits", func(ctx context.Context, s *Summary) error {
		alloc, err := LoadAllocator(ctx, im.db, "circuits", "circuitid")
		if err != nil {
			return err
		}
		items, err := im.src.Circuits(ctx)
		if err != nil {
			return im.fetchFailed(s, err)
		}

		e := circuitEntity(alloc)
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			ref := zap.String("circuitRef", item.CircuitID)
			rec, err := circuitRecord(item)
			if err != nil {
				im.skip(s, err, ref)
				continue
			}
			apply(ctx, im, s, e, rec, ref)
		}
		return nil
	})
}

func seasonEntity() entity[models.Season] {
	return entity[models.Season]{
		name: "seasons",
		key: func(q *bun.SelectQuery, m *models.Season) *bun.SelectQuery {
			return eq(q, "year", m.Year)
		},
		merge: func(dst, src *models.Season) []string {
			var c changes
			set(&c, "url", &dst.URL, src.URL)
			return c
		},
	}
}

// Seasons imports every season. The year is the primary key.
func (im *Importer) Seasons(ctx context.Context) (*Summary, error) {
	return im.run(ctx, "seasons", func(ctx context.Context, s *Summary) error {
		items, err := im.src.Seasons(ctx)
		if err != nil {
			return im.fetchFailed(s, err)
		}

		e := seasonEntity()
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			ref := zap.String("season", item.Season)
			year, err := reqInt("season", item.Season)
			if err != nil {
				im.skip(s, err, ref)
				continue
			}
			apply(ctx, im, s, e, &models.Season{Year: year, URL: item.URL}, ref)
		}
		return nil
	})
}

func statusEntity() entity[models.Status] {
	return entity[models.Status]{
		name: "status",
		key: func(q *bun.SelectQuery, m *models.Status) *bun.SelectQuery {
			return eq(q, "statusid", m.StatusID)
		},
		merge: func(dst, src *models.Status) []string {
			var c changes
			set(&c, "status", &dst.Status, src.Status)
			return c
		},
	}
}

// Statuses imports finishing statuses, keeping the upstream ids.
func (im *Importer) Statuses(ctx context.Context) (*Summary, error) {
	return im.run(ctx, "status", func(ctx context.Context, s *Summary) error {
		items, err := im.src.Statuses(ctx)
		if err != nil {
			return im.fetchFailed(s, err)
		}

		e := statusEntity()
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			ref := zap.String("statusId", item.StatusID)
			id, err := reqInt("statusId", item.StatusID)
			if err != nil {
				im.skip(s, err, ref)
				continue
			}
			apply(ctx, im, s, e, &models.Status{StatusID: id, Status: item.Status}, ref)
		}
		return nil
	})
}

func constructorEntity(alloc *Allocator) entity[models.Constructor] {
	return entity[models.Constructor]{
		name:  "constructors",
		alloc: alloc,
		setID: func(m *models.Constructor, id int) { m.ConstructorID = id },
		key: func(q *bun.SelectQuery, m *models.Constructor) *bun.SelectQuery {
			return eq(q, "constructorref", m.ConstructorRef)
		},
		merge: func(dst, src *models.Constructor) []string {
			var c changes
			set(&c, "name", &dst.Name, src.Name)
			setPtr(&c, "nationality", &dst.Nationality, src.Nationality)
			setPtr(&c, "url", &dst.URL, src.URL)
			return c
		},
	}
}

// Constructors imports the constructors entered in year.
func (im *Importer) Constructors(ctx context.Context, year int) (*Summary, error) {
	return im.run(ctx, "constructors", func(ctx context.Context, s *Summary) error {
		alloc, err := LoadAllocator(ctx, im.db, "constructors", "constructorid")
		if err != nil {
			return err
		}
		items, err := im.src.Constructors(ctx, year)
		if err != nil {
			return im.fetchFailed(s, err)
		}

		e := constructorEntity(alloc)
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec := &models.Constructor{
				ConstructorRef: item.ConstructorID,
				Name:           item.Name,
				Nationality:    optStr(item.Nationality),
				URL:            optStr(item.URL),
			}
			apply(ctx, im, s, e, rec, zap.String("constructorRef", item.ConstructorID))
		}
		return nil
	})
}

func driverEntity(alloc *Allocator) entity[models.Driver] {
	return entity[models.Driver]{
		name:  "drivers",
		alloc: alloc,
		setID: func(m *models.Driver, id int) { m.DriverID = id },
		key: func(q *bun.SelectQuery, m *models.Driver) *bun.SelectQuery {
			return eq(q, "driverref", m.DriverRef)
		},
		merge: func(dst, src *models.Driver) []string {
			var c changes
			setPtr(&c, "number", &dst.Number, src.Number)
			setPtr(&c, "code", &dst.Code, src.Code)
			setPtr(&c, "forename", &dst.Forename, src.Forename)
			setPtr(&c, "surname", &dst.Surname, src.Surname)
			setPtr(&c, "dob", &dst.DOB, src.DOB)
			setPtr(&c, "nationality", &dst.Nationality, src.Nationality)
			setPtr(&c, "url", &dst.URL, src.URL)
			return c
		},
	}
}

// Drivers imports the drivers entered in year.
func (im *Importer) Drivers(ctx context.Context, year int) (*Summary, error) {
	return im.run(ctx, "drivers", func(ctx context.Context, s *Summary) error {
		alloc, err := LoadAllocator(ctx, im.db, "drivers", "driverid")
		if err != nil {
			return err
		}
		items, err := im.src.Drivers(ctx, year)
		if err != nil {
			return im.fetchFailed(s, err)
		}

		e := driverEntity(alloc)
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec := &models.Driver{
				DriverRef:   item.DriverID,
				Number:      optStr(item.PermanentNumber),
				Code:        optStr(item.Code),
				Forename:    optStr(item.GivenName),
				Surname:     optStr(item.FamilyName),
				DOB:         optStr(item.DateOfBirth),
				Nationality: optStr(item.Nationality),
				URL:         optStr(item.URL),
			}
			apply(ctx, im, s, e, rec, zap.String("driverRef", item.DriverID))
		}
		return nil
	})
}

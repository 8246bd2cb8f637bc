package ergast

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Circuits returns every circuit known upstream.
func (c *Client) Circuits(ctx context.Context) ([]Circuit, error) {
	return fetchAll(ctx, c, "circuits", nil, func(p *MRData) ([]Circuit, error) {
		if p.CircuitTable == nil {
			return nil, missing("CircuitTable")
		}
		return p.CircuitTable.Circuits, nil
	})
}

// Seasons returns every championship season.
func (c *Client) Seasons(ctx context.Context) ([]Season, error) {
	return fetchAll(ctx, c, "seasons", nil, func(p *MRData) ([]Season, error) {
		if p.SeasonTable == nil {
			return nil, missing("SeasonTable")
		}
		return p.SeasonTable.Seasons, nil
	})
}

// Statuses returns every finishing status with its upstream id.
func (c *Client) Statuses(ctx context.Context) ([]Status, error) {
	return fetchAll(ctx, c, "status", nil, func(p *MRData) ([]Status, error) {
		if p.StatusTable == nil {
			return nil, missing("StatusTable")
		}
		return p.StatusTable.Status, nil
	})
}

// Races returns the calendar of a season.
func (c *Client) Races(ctx context.Context, year int) ([]Race, error) {
	return fetchAll(ctx, c, fmt.Sprintf("%d/races", year), nil, races)
}

// Constructors returns the constructors entered in a season.
func (c *Client) Constructors(ctx context.Context, year int) ([]Constructor, error) {
	return fetchAll(ctx, c, fmt.Sprintf("%d/constructors", year), nil, func(p *MRData) ([]Constructor, error) {
		if p.ConstructorTable == nil {
			return nil, missing("ConstructorTable")
		}
		return p.ConstructorTable.Constructors, nil
	})
}

// Drivers returns the drivers entered in a season.
func (c *Client) Drivers(ctx context.Context, year int) ([]Driver, error) {
	return fetchAll(ctx, c, fmt.Sprintf("%d/drivers", year), nil, func(p *MRData) ([]Driver, error) {
		if p.DriverTable == nil {
			return nil, missing("DriverTable")
		}
		return p.DriverTable.Drivers, nil
	})
}

// Results returns every race result of a season, one item per finisher.
func (c *Client) Results(ctx context.Context, year int) ([]RaceResult, error) {
	return fetchAll(ctx, c, fmt.Sprintf("%d/results", year), nil, func(p *MRData) ([]RaceResult, error) {
		rs, err := races(p)
		if err != nil {
			return nil, err
		}
		var out []RaceResult
		for _, r := range rs {
			for _, res := range r.Results {
				out = append(out, RaceResult{RaceRef: refOf(r), Result: res})
			}
		}
		return out, nil
	})
}

// SprintResults returns every sprint result of a season.
func (c *Client) SprintResults(ctx context.Context, year int) ([]RaceResult, error) {
	return fetchAll(ctx, c, fmt.Sprintf("%d/sprint", year), nil, func(p *MRData) ([]RaceResult, error) {
		rs, err := races(p)
		if err != nil {
			return nil, err
		}
		var out []RaceResult
		for _, r := range rs {
			for _, res := range r.SprintResults {
				out = append(out, RaceResult{RaceRef: refOf(r), Result: res})
			}
		}
		return out, nil
	})
}

// Qualifying returns every qualifying entry of a season.
func (c *Client) Qualifying(ctx context.Context, year int) ([]RaceQualifying, error) {
	return fetchAll(ctx, c, fmt.Sprintf("%d/qualifying", year), nil, func(p *MRData) ([]RaceQualifying, error) {
		rs, err := races(p)
		if err != nil {
			return nil, err
		}
		var out []RaceQualifying
		for _, r := range rs {
			for _, q := range r.QualifyingResults {
				out = append(out, RaceQualifying{RaceRef: refOf(r), QualifyingEntry: q})
			}
		}
		return out, nil
	})
}

func standingsPath(year, round int, kind string) string {
	if round > 0 {
		return fmt.Sprintf("%d/%d/%s", year, round, kind)
	}
	return fmt.Sprintf("%d/%s", year, kind)
}

// DriverStandings returns the drivers' table after round, or the latest
// table of the season when round is 0.
func (c *Client) DriverStandings(ctx context.Context, year, round int) ([]RoundDriverStanding, error) {
	return fetchAll(ctx, c, standingsPath(year, round, "driverstandings"), nil, func(p *MRData) ([]RoundDriverStanding, error) {
		lists, err := standings(p)
		if err != nil {
			return nil, err
		}
		var out []RoundDriverStanding
		for _, l := range lists {
			for _, s := range l.DriverStandings {
				out = append(out, RoundDriverStanding{RaceRef: RaceRef{Season: l.Season, Round: l.Round}, DriverStanding: s})
			}
		}
		return out, nil
	})
}

// ConstructorStandings returns the constructors' table after round, or the
// latest table of the season when round is 0.
func (c *Client) ConstructorStandings(ctx context.Context, year, round int) ([]RoundConstructorStanding, error) {
	return fetchAll(ctx, c, standingsPath(year, round, "constructorstandings"), nil, func(p *MRData) ([]RoundConstructorStanding, error) {
		lists, err := standings(p)
		if err != nil {
			return nil, err
		}
		var out []RoundConstructorStanding
		for _, l := range lists {
			for _, s := range l.ConstructorStandings {
				out = append(out, RoundConstructorStanding{RaceRef: RaceRef{Season: l.Season, Round: l.Round}, ConstructorStanding: s})
			}
		}
		return out, nil
	})
}

// PitStops returns every pit stop of one race.
func (c *Client) PitStops(ctx context.Context, year, round int) ([]RacePitStop, error) {
	return fetchAll(ctx, c, fmt.Sprintf("%d/%d/pitstops", year, round), nil, func(p *MRData) ([]RacePitStop, error) {
		rs, err := races(p)
		if err != nil {
			return nil, err
		}
		var out []RacePitStop
		for _, r := range rs {
			for _, ps := range r.PitStops {
				out = append(out, RacePitStop{RaceRef: refOf(r), PitStop: ps})
			}
		}
		return out, nil
	})
}

// LapTimes returns every lap timing of one race. Page requests are spaced
// by the configured lap times delay.
func (c *Client) LapTimes(ctx context.Context, year, round int) ([]RaceLapTiming, error) {
	var pace *rate.Limiter
	if c.lapTimesDelay > 0 {
		pace = rate.NewLimiter(rate.Every(c.lapTimesDelay), 1)
	}
	return fetchAll(ctx, c, fmt.Sprintf("%d/%d/laps", year, round), pace, func(p *MRData) ([]RaceLapTiming, error) {
		rs, err := races(p)
		if err != nil {
			return nil, err
		}
		var out []RaceLapTiming
		for _, r := range rs {
			for _, lap := range r.Laps {
				for _, t := range lap.Timings {
					out = append(out, RaceLapTiming{RaceRef: refOf(r), Lap: lap.Number, LapTiming: t})
				}
			}
		}
		return out, nil
	})
}

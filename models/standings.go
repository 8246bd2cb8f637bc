package models

import "github.com/uptrace/bun"

// DriverStanding is the championship table entry for a driver after a race.
type DriverStanding struct {
	bun.BaseModel `bun:"table:driver_standings,alias:ds"`

	DriverStandingsID int      `bun:"driverstandingsid,pk" json:"driverStandingsID"`
	RaceID            int      `bun:"raceid,notnull,unique:driver_standings_race_driver" json:"raceID"`
	DriverID          int      `bun:"driverid,notnull,unique:driver_standings_race_driver" json:"driverID"`
	Points            *float64 `bun:"points" json:"points,omitempty"`
	Position          *int     `bun:"position" json:"position,omitempty"`
	PositionText      *string  `bun:"positiontext" json:"positionText,omitempty"`
	Wins              *int     `bun:"wins" json:"wins,omitempty"`
}

// ConstructorStanding is the championship table entry for a constructor after a race.
type ConstructorStanding struct {
	bun.BaseModel `bun:"table:constructor_standings,alias:cs"`

	ConstructorStandingsID int      `bun:"constructorstandingsid,pk" json:"constructorStandingsID"`
	RaceID                 int      `bun:"raceid,notnull,unique:constructor_standings_race_constructor" json:"raceID"`
	ConstructorID          int      `bun:"constructorid,notnull,unique:constructor_standings_race_constructor" json:"constructorID"`
	Points                 *float64 `bun:"points" json:"points,omitempty"`
	Position               *int     `bun:"position" json:"position,omitempty"`
	PositionText           *string  `bun:"positiontext" json:"positionText,omitempty"`
	Wins                   *int     `bun:"wins" json:"wins,omitempty"`
}

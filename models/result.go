package models

import "github.com/uptrace/bun"

// Result is a classified race finish.
// Position, timing and fastest-lap columns keep the upstream text verbatim
// ("R", "+1:02.145", "1:32.110"), so rows round-trip exactly.
type Result struct {
	bun.BaseModel `bun:"table:results,alias:re"`

	ResultID        int      `bun:"resultid,pk" json:"resultID"`
	RaceID          int      `bun:"raceid,notnull,unique:results_race_driver_constructor_number" json:"raceID"`
	DriverID        int      `bun:"driverid,notnull,unique:results_race_driver_constructor_number" json:"driverID"`
	ConstructorID   int      `bun:"constructorid,notnull,unique:results_race_driver_constructor_number" json:"constructorID"`
	Number          *int     `bun:"number,unique:results_race_driver_constructor_number" json:"number,omitempty"`
	StatusID        *int     `bun:"statusid" json:"statusID,omitempty"`
	Grid            *int     `bun:"grid" json:"grid,omitempty"`
	Position        *string  `bun:"position" json:"position,omitempty"`
	PositionText    *string  `bun:"positiontext" json:"positionText,omitempty"`
	PositionOrder   *int     `bun:"positionorder" json:"positionOrder,omitempty"`
	Points          *float64 `bun:"points" json:"points,omitempty"`
	Laps            *int     `bun:"laps" json:"laps,omitempty"`
	Time            *string  `bun:"time" json:"time,omitempty"`
	Milliseconds    *string  `bun:"milliseconds" json:"milliseconds,omitempty"`
	FastestLap      *string  `bun:"fastestlap" json:"fastestLap,omitempty"`
	Rank            *string  `bun:"rank" json:"rank,omitempty"`
	FastestLapTime  *string  `bun:"fastestlaptime" json:"fastestLapTime,omitempty"`
	FastestLapSpeed *string  `bun:"fastestlapspeed" json:"fastestLapSpeed,omitempty"`
}

// SprintResult mirrors Result for sprint races, keyed by (race, driver).
type SprintResult struct {
	bun.BaseModel `bun:"table:sprint_results,alias:sr"`

	ResultID       int      `bun:"resultid,pk" json:"resultID"`
	RaceID         int      `bun:"raceid,notnull,unique:sprint_results_race_driver" json:"raceID"`
	DriverID       int      `bun:"driverid,notnull,unique:sprint_results_race_driver" json:"driverID"`
	ConstructorID  *int     `bun:"constructorid" json:"constructorID,omitempty"`
	StatusID       *int     `bun:"statusid" json:"statusID,omitempty"`
	Number         *int     `bun:"number" json:"number,omitempty"`
	Grid           *int     `bun:"grid" json:"grid,omitempty"`
	Position       *string  `bun:"position" json:"position,omitempty"`
	PositionText   *string  `bun:"positiontext" json:"positionText,omitempty"`
	PositionOrder  *int     `bun:"positionorder" json:"positionOrder,omitempty"`
	Points         *float64 `bun:"points" json:"points,omitempty"`
	Laps           *int     `bun:"laps" json:"laps,omitempty"`
	Time           *string  `bun:"time" json:"time,omitempty"`
	Milliseconds   *string  `bun:"milliseconds" json:"milliseconds,omitempty"`
	FastestLap     *string  `bun:"fastestlap" json:"fastestLap,omitempty"`
	Rank           *string  `bun:"rank" json:"rank,omitempty"`
	FastestLapTime *string  `bun:"fastestlaptime" json:"fastestLapTime,omitempty"`
}

package models

import "github.com/uptrace/bun"

// LapTime is a driver's time and running position on one lap.
type LapTime struct {
	bun.BaseModel `bun:"table:lap_times,alias:lt"`

	LapTimeID    int     `bun:"lap_timeid,pk" json:"lapTimeID"`
	RaceID       int     `bun:"raceid,notnull,unique:lap_times_race_driver_lap" json:"raceID"`
	DriverID     int     `bun:"driverid,notnull,unique:lap_times_race_driver_lap" json:"driverID"`
	Lap          int     `bun:"lap,notnull,unique:lap_times_race_driver_lap" json:"lap"`
	Position     int     `bun:"position,notnull" json:"position"`
	Time         *string `bun:"time" json:"time,omitempty"`
	Milliseconds *int    `bun:"milliseconds" json:"milliseconds,omitempty"`
}

package models

import "github.com/uptrace/bun"

// PitStop is one stop by a driver during a race. Duration is stored as
// "MM:SS.mmm"; Milliseconds keeps the upstream digits.
type PitStop struct {
	bun.BaseModel `bun:"table:pit_stops,alias:ps"`

	PitStopID    int     `bun:"pit_stopid,pk" json:"pitStopID"`
	RaceID       int     `bun:"raceid,notnull,unique:pit_stops_race_driver_stop" json:"raceID"`
	DriverID     int     `bun:"driverid,notnull,unique:pit_stops_race_driver_stop" json:"driverID"`
	Stop         int     `bun:"stop,notnull,unique:pit_stops_race_driver_stop" json:"stop"`
	Lap          *int    `bun:"lap" json:"lap,omitempty"`
	Time         *string `bun:"time" json:"time,omitempty"`
	Duration     *string `bun:"duration" json:"duration,omitempty"`
	Milliseconds *string `bun:"milliseconds" json:"milliseconds,omitempty"`
}

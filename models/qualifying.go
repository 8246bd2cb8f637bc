package models

import "github.com/uptrace/bun"

// Qualifying holds a driver's qualifying session times for a race.
type Qualifying struct {
	bun.BaseModel `bun:"table:qualifying,alias:q"`

	QualifyID     int     `bun:"qualifyid,pk" json:"qualifyID"`
	RaceID        int     `bun:"raceid,notnull,unique:qualifying_race_driver" json:"raceID"`
	DriverID      int     `bun:"driverid,notnull,unique:qualifying_race_driver" json:"driverID"`
	ConstructorID *int    `bun:"constructorid" json:"constructorID,omitempty"`
	Number        *int    `bun:"number" json:"number,omitempty"`
	Position      *int    `bun:"position" json:"position,omitempty"`
	Q1            *string `bun:"q1" json:"q1,omitempty"`
	Q2            *string `bun:"q2" json:"q2,omitempty"`
	Q3            *string `bun:"q3" json:"q3,omitempty"`
}

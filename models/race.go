package models

import "github.com/uptrace/bun"

// Race is one championship round. CircuitID holds the internal circuit id.
type Race struct {
	bun.BaseModel `bun:"table:races,alias:ra"`

	RaceID     int     `bun:"raceid,pk" json:"raceID"`
	Year       int     `bun:"year,notnull,unique:races_year_round" json:"year"`
	Round      int     `bun:"round,notnull,unique:races_year_round" json:"round"`
	CircuitID  *int    `bun:"circuitid" json:"circuitID,omitempty"`
	Name       string  `bun:"name,notnull" json:"name"`
	Date       string  `bun:"date,notnull" json:"date"`
	Time       *string `bun:"time" json:"time,omitempty"`
	URL        *string `bun:"url" json:"url,omitempty"`
	FP1Date    *string `bun:"fp1_date" json:"fp1Date,omitempty"`
	FP1Time    *string `bun:"fp1_time" json:"fp1Time,omitempty"`
	FP2Date    *string `bun:"fp2_date" json:"fp2Date,omitempty"`
	FP2Time    *string `bun:"fp2_time" json:"fp2Time,omitempty"`
	FP3Date    *string `bun:"fp3_date" json:"fp3Date,omitempty"`
	FP3Time    *string `bun:"fp3_time" json:"fp3Time,omitempty"`
	QualiDate  *string `bun:"quali_date" json:"qualiDate,omitempty"`
	QualiTime  *string `bun:"quali_time" json:"qualiTime,omitempty"`
	SprintDate *string `bun:"sprint_date" json:"sprintDate,omitempty"`
	SprintTime *string `bun:"sprint_time" json:"sprintTime,omitempty"`
}

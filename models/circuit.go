package models

import "github.com/uptrace/bun"

// Circuit is a race track, keyed upstream by its circuit reference.
type Circuit struct {
	bun.BaseModel `bun:"table:circuits,alias:ci"`

	CircuitID  int      `bun:"circuitid,pk" json:"circuitID"`
	CircuitRef string   `bun:"circuitref,notnull,unique" json:"circuitRef"`
	Name       string   `bun:"name,notnull" json:"name"`
	Location   *string  `bun:"location" json:"location,omitempty"`
	Country    *string  `bun:"country" json:"country,omitempty"`
	Lat        *float64 `bun:"lat" json:"lat,omitempty"`
	Lng        *float64 `bun:"lng" json:"lng,omitempty"`
	Alt        *int     `bun:"alt" json:"alt,omitempty"`
	URL        *string  `bun:"url" json:"url,omitempty"`
}

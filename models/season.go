package models

import "github.com/uptrace/bun"

// Season is keyed by its year; there is no surrogate id.
type Season struct {
	bun.BaseModel `bun:"table:seasons,alias:se"`

	Year int    `bun:"year,pk" json:"year"`
	URL  string `bun:"url,notnull" json:"url"`
}

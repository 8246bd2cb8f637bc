package models

import "github.com/uptrace/bun"

// Status is a finishing status ("Finished", "+1 Lap", ...). StatusID comes
// from upstream and is never allocated locally.
type Status struct {
	bun.BaseModel `bun:"table:status,alias:st"`

	StatusID int    `bun:"statusid,pk" json:"statusID"`
	Status   string `bun:"status,notnull" json:"status"`
}

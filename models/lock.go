package models

import "github.com/uptrace/bun"

// ImportLock marks an importer run in progress. ExpiresAt is unix seconds.
type ImportLock struct {
	bun.BaseModel `bun:"table:import_locks,alias:il"`

	Name      string `bun:"name,pk" json:"name"`
	Owner     string `bun:"owner,notnull" json:"owner"`
	ExpiresAt int64  `bun:"expires_at,notnull" json:"expiresAt"`
}

package models

import "github.com/uptrace/bun"

// Constructor is a team entry.
type Constructor struct {
	bun.BaseModel `bun:"table:constructors,alias:co"`

	ConstructorID  int     `bun:"constructorid,pk" json:"constructorID"`
	ConstructorRef string  `bun:"constructorref,notnull,unique" json:"constructorRef"`
	Name           string  `bun:"name,notnull" json:"name"`
	Nationality    *string `bun:"nationality" json:"nationality,omitempty"`
	URL            *string `bun:"url" json:"url,omitempty"`
}

package models

import "github.com/uptrace/bun"

// Driver is keyed upstream by its driver reference. Number and Code are
// absent for most historical drivers.
type Driver struct {
	bun.BaseModel `bun:"table:drivers,alias:dr"`

	DriverID    int     `bun:"driverid,pk" json:"driverID"`
	DriverRef   string  `bun:"driverref,notnull,unique" json:"driverRef"`
	Number      *string `bun:"number" json:"number,omitempty"`
	Code        *string `bun:"code" json:"code,omitempty"`
	Forename    *string `bun:"forename" json:"forename,omitempty"`
	Surname     *string `bun:"surname" json:"surname,omitempty"`
	DOB         *string `bun:"dob" json:"dob,omitempty"`
	Nationality *string `bun:"nationality" json:"nationality,omitempty"`
	URL         *string `bun:"url" json:"url,omitempty"`
}

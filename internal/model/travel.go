package model

import "time"

// Travel is a destination package that groups tours.  Slug is derived from
// Name and recomputed whenever the name is written.
type Travel struct {
	ID           uint64
	Name         string
	Slug         string
	Description  string
	NumberOfDays int
	IsPublic     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (t Travel) NumberOfNights() int {
	if t.NumberOfDays < 1 {
		return 0
	}
	return t.NumberOfDays - 1
}

package model

import "time"

// DateLayout is how tour dates are accepted and presented.
const DateLayout = "2006-01-02"

// Tour is a bookable, date ranged and priced instance under a Travel.
// EndingDate must be after StartingDate.
type Tour struct {
	ID           uint64
	TravelID     uint64
	Name         string
	StartingDate time.Time
	EndingDate   time.Time
	Price        Money
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package handler

import "github.com/iliyamo/travel-api/internal/model"

type travelResource struct {
	ID             uint64 `json:"id"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	Description    string `json:"description"`
	NumberOfDays   int    `json:"number_of_days"`
	NumberOfNights int    `json:"number_of_nights"`
	IsPublic       bool   `json:"is_public"`
}

func newTravelResource(t model.Travel) travelResource {
	return travelResource{
		ID:             t.ID,
		Name:           t.Name,
		Slug:           t.Slug,
		Description:    t.Description,
		NumberOfDays:   t.NumberOfDays,
		NumberOfNights: t.NumberOfNights(),
		IsPublic:       t.IsPublic,
	}
}

// tourResource shows dates as YYYY-MM-DD and the price as a major-unit
// string with two decimals.
type tourResource struct {
	ID           uint64      `json:"id"`
	Name         string      `json:"name"`
	StartingDate string      `json:"starting_date"`
	EndingDate   string      `json:"ending_date"`
	Price        model.Money `json:"price"`
}

func newTourResource(t model.Tour) tourResource {
	return tourResource{
		ID:           t.ID,
		Name:         t.Name,
		StartingDate: t.StartingDate.Format(model.DateLayout),
		EndingDate:   t.EndingDate.Format(model.DateLayout),
		Price:        t.Price,
	}
}

func travelResources(ts []model.Travel) []travelResource {
	out := make([]travelResource, 0, len(ts))
	for _, t := range ts {
		out = append(out, newTravelResource(t))
	}
	return out
}

func tourResources(ts []model.Tour) []tourResource {
	out := make([]tourResource, 0, len(ts))
	for _, t := range ts {
		out = append(out, newTourResource(t))
	}
	return out
}

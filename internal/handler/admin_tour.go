package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-api/internal/model"
	"github.com/iliyamo/travel-api/internal/queue"
	"github.com/iliyamo/travel-api/internal/repository"
)

type tourRequest struct {
	Name         flexString `json:"name" validate:"required,max=255"`
	StartingDate flexString `json:"starting_date" validate:"required,date"`
	EndingDate   flexString `json:"ending_date" validate:"required,date"`
	Price        flexString `json:"price" validate:"required,numeric"`
}

// tourInput is a tourRequest that passed validation.
type tourInput struct {
	name     string
	starting time.Time
	ending   time.Time
	price    model.Money
}

// ListTours handles GET /api/v1/admin/travels/:id/tours.  Unlike the
// public listing the travel may be private.
func (h *AdminHandler) ListTours(c echo.Context) error {
	travel, ok, err := h.travelFromPath(c)
	if !ok {
		return err
	}
	filter, errs, err := bindTourFilter(c)
	if err != nil {
		return err
	}
	if !errs.Empty() {
		return unprocessable(c, errs)
	}
	return listTours(c, h.Tours, h.Log, travel, filter)
}

// CreateTour handles POST /api/v1/admin/travels/:id/tours.
func (h *AdminHandler) CreateTour(c echo.Context) error {
	travel, ok, err := h.travelFromPath(c)
	if !ok {
		return err
	}
	in, ok, err := bindTour(c)
	if !ok {
		return err
	}

	t := model.Tour{TravelID: travel.ID}
	in.applyTo(&t)
	if err := h.Tours.Create(c.Request().Context(), &t); err != nil {
		return serverError(c, h.Log, "create tour", err)
	}

	h.publish(c, queue.ActionCreated, queue.EntityTour, t.ID, travel.ID, t.Name)
	return c.JSON(http.StatusCreated, echo.Map{"data": newTourResource(t)})
}

// UpdateTour handles PUT /api/v1/admin/travels/:id/tours/:tourId.  A tour
// that belongs to another travel is not found.
func (h *AdminHandler) UpdateTour(c echo.Context) error {
	travel, ok, err := h.travelFromPath(c)
	if !ok {
		return err
	}
	in, ok, err := bindTour(c)
	if !ok {
		return err
	}

	tourID, ok := pathID(c, "tourId")
	if !ok {
		return notFound(c, msgTourNotFound)
	}
	ctx := c.Request().Context()
	t, err := h.Tours.GetForTravel(ctx, travel.ID, tourID)
	if errors.Is(err, repository.ErrTourNotFound) {
		return notFound(c, msgTourNotFound)
	}
	if err != nil {
		return serverError(c, h.Log, "get tour", err)
	}

	in.applyTo(&t)
	if err := h.Tours.Update(ctx, &t); err != nil {
		if errors.Is(err, repository.ErrTourNotFound) {
			return notFound(c, msgTourNotFound)
		}
		return serverError(c, h.Log, "update tour", err)
	}

	h.publish(c, queue.ActionUpdated, queue.EntityTour, t.ID, travel.ID, t.Name)
	return c.JSON(http.StatusOK, echo.Map{"data": newTourResource(t)})
}

// travelFromPath loads the travel named by :id.  When ok is false the
// response has been decided and err is what the handler returns.
func (h *AdminHandler) travelFromPath(c echo.Context) (model.Travel, bool, error) {
	id, ok := pathID(c, "id")
	if !ok {
		return model.Travel{}, false, notFound(c, msgTravelNotFound)
	}
	t, err := h.Travels.GetByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrTravelNotFound) {
		return model.Travel{}, false, notFound(c, msgTravelNotFound)
	}
	if err != nil {
		return model.Travel{}, false, serverError(c, h.Log, "get travel", err)
	}
	return t, true, nil
}

// bindTour binds and validates a tour body.  When ok is false the response
// has been decided and err is what the handler returns.
func bindTour(c echo.Context) (tourInput, bool, error) {
	var req tourRequest
	if err := c.Bind(&req); err != nil {
		return tourInput{}, false, err
	}
	errs, err := validateRequest(c, &req)
	if err != nil {
		return tourInput{}, false, err
	}

	var in tourInput
	in.name = req.Name.String()
	start, startOK := parseDate(req.StartingDate.String())
	end, endOK := parseDate(req.EndingDate.String())
	in.starting, in.ending = dateOnly(start), dateOnly(end)
	if startOK && endOK && !in.ending.After(in.starting) {
		errs.Add("ending_date", "The ending date field must be a date after starting date.")
	}
	if !errs.Has("price") {
		p, err := model.ParseMoney(req.Price.String())
		if err != nil {
			errs.Add("price", "The price field must be a number.")
		}
		in.price = p
	}

	if !errs.Empty() {
		return tourInput{}, false, unprocessable(c, errs)
	}
	return in, true, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (in tourInput) applyTo(t *model.Tour) {
	t.Name = in.name
	t.StartingDate = in.starting
	t.EndingDate = in.ending
	t.Price = in.price
}

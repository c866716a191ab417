package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/travel-api/internal/model"
	"github.com/iliyamo/travel-api/internal/repository"
)

// PublicHandler serves the unauthenticated catalogue: public travels and
// the tours of a public travel.
type PublicHandler struct {
	Travels TravelStore
	Tours   TourStore
	Log     *zap.Logger
}

func NewPublicHandler(travels TravelStore, tours TourStore, log *zap.Logger) *PublicHandler {
	return &PublicHandler{Travels: travels, Tours: tours, Log: log}
}

// ListTravels handles GET /api/v1/travels.
func (h *PublicHandler) ListTravels(c echo.Context) error {
	page := pageFromQuery(c)
	travels, total, err := h.Travels.List(c.Request().Context(), true, page)
	if err != nil {
		return serverError(c, h.Log, "list public travels", err)
	}
	return c.JSON(http.StatusOK, paginate(c, travelResources(travels), total, page))
}

// ListTours handles GET /api/v1/travels/:slug/tours.  A travel that is not
// public is reported exactly like one that does not exist.
func (h *PublicHandler) ListTours(c echo.Context) error {
	filter, errs, err := bindTourFilter(c)
	if err != nil {
		return err
	}
	if !errs.Empty() {
		return unprocessable(c, errs)
	}

	travel, err := h.Travels.GetPublicBySlug(c.Request().Context(), c.Param("slug"))
	if errors.Is(err, repository.ErrTravelNotFound) {
		return notFound(c, msgTravelNotFound)
	}
	if err != nil {
		return serverError(c, h.Log, "get public travel", err)
	}
	return listTours(c, h.Tours, h.Log, travel, filter)
}

// tourListQuery holds the raw filter parameters of a tour listing.
type tourListQuery struct {
	DateFrom  string `query:"dateFrom" validate:"omitempty,date"`
	DateTo    string `query:"dateTo" validate:"omitempty,date"`
	PriceFrom string `query:"priceFrom" validate:"omitempty,numeric"`
	PriceTo   string `query:"priceTo" validate:"omitempty,numeric"`
	SortBy    string `query:"sortBy" validate:"omitempty,oneof=price"`
	SortOrder string `query:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// bindTourFilter reads and validates the tour listing query string.  A
// non-nil err is a response already decided by the binder.
func bindTourFilter(c echo.Context) (repository.TourFilter, ValidationErrors, error) {
	var q tourListQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return repository.TourFilter{}, nil, err
	}
	errs, err := validateRequest(c, &q)
	if err != nil || !errs.Empty() {
		return repository.TourFilter{}, errs, err
	}

	f := repository.TourFilter{SortBy: q.SortBy, SortOrder: q.SortOrder}
	if d, ok := parseDate(q.DateFrom); ok {
		f.DateFrom = &d
	}
	if d, ok := parseDate(q.DateTo); ok {
		f.DateTo = &d
	}
	if q.PriceFrom != "" {
		m, err := model.ParseMoney(q.PriceFrom)
		if err != nil {
			errs.Add("priceFrom", "The price from field must be a number.")
		}
		f.PriceFrom = &m
	}
	if q.PriceTo != "" {
		m, err := model.ParseMoney(q.PriceTo)
		if err != nil {
			errs.Add("priceTo", "The price to field must be a number.")
		}
		f.PriceTo = &m
	}
	return f, errs, nil
}

func listTours(c echo.Context, tours TourStore, log *zap.Logger, travel model.Travel, f repository.TourFilter) error {
	page := pageFromQuery(c)
	items, total, err := tours.ListByTravel(c.Request().Context(), travel.ID, f, page)
	if err != nil {
		return serverError(c, log, "list tours", err)
	}
	return c.JSON(http.StatusOK, paginate(c, tourResources(items), total, page))
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gosimple/slug"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-api/internal/model"
	"github.com/iliyamo/travel-api/internal/queue"
	"github.com/iliyamo/travel-api/internal/repository"
)

const (
	msgNameTaken  = "The name has already been taken."
	msgNameNoSlug = "The name field must contain at least one letter or number."
)

type travelRequest struct {
	Name         flexString  `json:"name" validate:"required,max=255"`
	Description  flexString  `json:"description" validate:"required"`
	NumberOfDays flexString  `json:"number_of_days" validate:"required,integer"`
	IsPublic     *flexString `json:"is_public" validate:"omitempty,boolean"`
}

// ListTravels handles GET /api/v1/admin/travels.  Private travels are
// included.
func (h *AdminHandler) ListTravels(c echo.Context) error {
	page := pageFromQuery(c)
	travels, total, err := h.Travels.List(c.Request().Context(), false, page)
	if err != nil {
		return serverError(c, h.Log, "list travels", err)
	}
	return c.JSON(http.StatusOK, paginate(c, travelResources(travels), total, page))
}

// CreateTravel handles POST /api/v1/admin/travels.
func (h *AdminHandler) CreateTravel(c echo.Context) error {
	var req travelRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	errs, err := h.validateTravel(c, &req, 0)
	if err != nil {
		return serverError(c, h.Log, "validate travel", err)
	}
	if !errs.Empty() {
		return unprocessable(c, errs)
	}

	t := model.Travel{}
	req.applyTo(&t)
	if err := h.Travels.Create(c.Request().Context(), &t); err != nil {
		if errors.Is(err, repository.ErrTravelNameTaken) {
			return unprocessable(c, ValidationErrors{"name": {msgNameTaken}})
		}
		return serverError(c, h.Log, "create travel", err)
	}

	h.publish(c, queue.ActionCreated, queue.EntityTravel, t.ID, t.ID, t.Name)
	return c.JSON(http.StatusCreated, echo.Map{"data": newTravelResource(t)})
}

// UpdateTravel handles PUT /api/v1/admin/travels/:id.  The slug follows
// the new name.
func (h *AdminHandler) UpdateTravel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c, msgTravelNotFound)
	}
	ctx := c.Request().Context()
	t, err := h.Travels.GetByID(ctx, id)
	if errors.Is(err, repository.ErrTravelNotFound) {
		return notFound(c, msgTravelNotFound)
	}
	if err != nil {
		return serverError(c, h.Log, "get travel", err)
	}

	var req travelRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	errs, err := h.validateTravel(c, &req, t.ID)
	if err != nil {
		return serverError(c, h.Log, "validate travel", err)
	}
	if !errs.Empty() {
		return unprocessable(c, errs)
	}

	req.applyTo(&t)
	if err := h.Travels.Update(ctx, &t); err != nil {
		if errors.Is(err, repository.ErrTravelNameTaken) {
			return unprocessable(c, ValidationErrors{"name": {msgNameTaken}})
		}
		if errors.Is(err, repository.ErrTravelNotFound) {
			return notFound(c, msgTravelNotFound)
		}
		return serverError(c, h.Log, "update travel", err)
	}

	h.publish(c, queue.ActionUpdated, queue.EntityTravel, t.ID, t.ID, t.Name)
	return c.JSON(http.StatusOK, echo.Map{"data": newTravelResource(t)})
}

// validateTravel runs the field rules and then the uniqueness check on
// name, ignoring the travel being updated.  A name must also yield a
// non-empty slug, since public tour listings are addressed by it.
func (h *AdminHandler) validateTravel(c echo.Context, req *travelRequest, selfID uint64) (ValidationErrors, error) {
	errs, err := validateRequest(c, req)
	if err != nil {
		return nil, err
	}
	if errs.Has("name") {
		return errs, nil
	}
	if slug.Make(req.Name.String()) == "" {
		errs.Add("name", msgNameNoSlug)
		return errs, nil
	}
	taken, err := h.Travels.NameExists(c.Request().Context(), req.Name.String(), selfID)
	if err != nil {
		return nil, err
	}
	if taken {
		errs.Add("name", msgNameTaken)
	}
	return errs, nil
}

// applyTo copies a validated request onto t.  An absent is_public leaves
// the current value alone, which for a new travel is false.
func (r *travelRequest) applyTo(t *model.Travel) {
	t.Name = r.Name.String()
	t.Slug = slug.Make(t.Name)
	t.Description = r.Description.String()
	t.NumberOfDays, _ = strconv.Atoi(r.NumberOfDays.String())
	if r.IsPublic != nil && r.IsPublic.String() != "" {
		t.IsPublic, _ = strconv.ParseBool(r.IsPublic.String())
	}
}

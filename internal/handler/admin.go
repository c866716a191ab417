package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/travel-api/internal/middleware"
	"github.com/iliyamo/travel-api/internal/queue"
)

// AdminHandler serves the role-gated catalogue management endpoints.
type AdminHandler struct {
	Travels TravelStore
	Tours   TourStore
	Events  EventPublisher
	Log     *zap.Logger
}

// NewAdminHandler panics if any dependency is nil.
func NewAdminHandler(travels TravelStore, tours TourStore, events EventPublisher, log *zap.Logger) *AdminHandler {
	if travels == nil || tours == nil || events == nil || log == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{Travels: travels, Tours: tours, Events: events, Log: log}
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// publish records a catalogue change.  Failures are already logged by the
// publisher and never fail the request.
func (h *AdminHandler) publish(c echo.Context, action, entity string, entityID, travelID uint64, name string) {
	ev := queue.CatalogChangedEvent{
		Action:     action,
		Entity:     entity,
		EntityID:   entityID,
		TravelID:   travelID,
		Name:       name,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if p, ok := middleware.PrincipalFrom(c); ok {
		ev.ActorID = p.User.ID
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), 5*time.Second)
	defer cancel()
	_ = h.Events.PublishCatalogChanged(ctx, ev)
}

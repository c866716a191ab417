package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/travel-api/internal/handler"
	"github.com/iliyamo/travel-api/internal/middleware"
	"github.com/iliyamo/travel-api/internal/model"
)

var (
	adminOnly     = model.NewRoleSet(model.RoleAdmin)
	adminOrEditor = model.NewRoleSet(model.RoleAdmin, model.RoleEditor)
)

// RegisterAdmin registers the catalogue management routes under /admin.
// The whole group requires a bearer token; each route then names the roles
// that may use it.  Creating is admin only, reading and updating is open to
// editors as well.
func RegisterAdmin(v1 *echo.Group, a *handler.AdminHandler, v middleware.BearerVerifier, roles middleware.RoleLoader, log *zap.Logger) {
	g := v1.Group("/admin", middleware.Authenticate(v, log))
	admin := middleware.RequireRoles(roles, adminOnly, log)
	editor := middleware.RequireRoles(roles, adminOrEditor, log)

	// ---- Travels ----
	g.GET("/travels", a.ListTravels, editor)
	g.POST("/travels", a.CreateTravel, admin)
	g.PUT("/travels/:id", a.UpdateTravel, editor)

	// ---- Tours ----
	g.GET("/travels/:id/tours", a.ListTours, editor)
	g.POST("/travels/:id/tours", a.CreateTour, admin)
	g.PUT("/travels/:id/tours/:tourId", a.UpdateTour, editor)
}

package router // router defines how HTTP routes are registered for the API

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/iliyamo/travel-api/internal/handler"
	"github.com/iliyamo/travel-api/internal/middleware"
)

// APIPrefix is where every versioned endpoint lives.
const APIPrefix = "/api/v1"

// Deps are the handlers and middleware collaborators New wires into routes.
type Deps struct {
	Public   *handler.PublicHandler
	Auth     *handler.AuthHandler
	Admin    *handler.AdminHandler
	Verifier middleware.BearerVerifier
	Roles    middleware.RoleLoader
	// DB backs /healthz; nil skips the database check.
	DB handler.Pinger
	// Metrics and Gatherer back /metrics.  Both may be nil.
	Metrics  *middleware.Metrics
	Gatherer prometheus.Gatherer
	// LoginLimit throttles POST /login; nil means unlimited.
	LoginLimit echo.MiddlewareFunc
	Log        *zap.Logger
}

// New builds the Echo instance with global middleware and every route.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler(d.Log)

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomw.Recover())
	if d.Metrics != nil {
		e.Use(d.Metrics.Middleware())
	}

	RegisterRoutes(e, d.DB, d.Gatherer)
	v1 := e.Group(APIPrefix)
	RegisterPublic(v1, d.Public, d.Auth, d.LoginLimit)
	RegisterAdmin(v1, d.Admin, d.Verifier, d.Roles, d.Log)
	return e
}

// RegisterRoutes registers the operational endpoints: /healthz and, when a
// gatherer is given, /metrics.
func RegisterRoutes(e *echo.Echo, db handler.Pinger, gatherer prometheus.Gatherer) {
	e.GET("/healthz", handler.Health(db))
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}

// RegisterPublic registers the unauthenticated catalogue and login routes.
func RegisterPublic(g *echo.Group, p *handler.PublicHandler, a *handler.AuthHandler, loginLimit echo.MiddlewareFunc) {
	g.GET("/travels", p.ListTravels)
	g.GET("/travels/:slug/tours", p.ListTours)

	var mw []echo.MiddlewareFunc
	if loginLimit != nil {
		mw = append(mw, loginLimit)
	}
	g.POST("/login", a.Login, mw...)
}

package middleware

import (
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP collectors.  Routes are labelled by their
// registered path (e.g. /api/v1/travels/:slug/tours) to keep cardinality
// bounded.
type Metrics struct {
    requests *prometheus.CounterVec
    duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
    f := promauto.With(reg)
    return &Metrics{
        requests: f.NewCounterVec(prometheus.CounterOpts{
            Name: "http_requests_total",
            Help: "HTTP requests processed, by method, route and status.",
        }, []string{"method", "route", "status"}),
        duration: f.NewHistogramVec(prometheus.HistogramOpts{
            Name:    "http_request_duration_seconds",
            Help:    "HTTP request latency, by method and route.",
            Buckets: prometheus.DefBuckets,
        }, []string{"method", "route"}),
    }
}

// Middleware records every request that reaches a route.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            if err != nil {
                c.Error(err)
            }
            route := c.Path()
            if route == "" {
                route = "unmatched"
            }
            method := c.Request().Method
            m.requests.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
            m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
            return nil
        }
    }
}

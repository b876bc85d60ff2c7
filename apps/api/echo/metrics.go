package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csroma_http_requests_total",
			Help: "Count of HTTP requests by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "csroma_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

func metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			path := ctx.Path() // route template, not raw URL
			if path == "" {
				path = ctx.Request().URL.Path
			}
			status := ctx.Response().Status
			if err != nil {
				if herr, ok := err.(*echo.HTTPError); ok {
					status = herr.Code
				}
			}

			requestCount.WithLabelValues(ctx.Request().Method, path, strconv.Itoa(status)).Inc()
			requestDuration.WithLabelValues(ctx.Request().Method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

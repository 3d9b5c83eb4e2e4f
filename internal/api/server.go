// Package api exposes the level meter over a pull-only HTTP surface.
// Consumers poll the current level, history and configuration; the meter
// never pushes to them.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tphakala/levelmeter-go/internal/errors"
	"github.com/tphakala/levelmeter-go/internal/levelmeter"
	"github.com/tphakala/levelmeter-go/internal/logging"
	"github.com/tphakala/levelmeter-go/internal/observability/metrics"
)

// shutdownTimeout bounds graceful shutdown of the API server.
const shutdownTimeout = 5 * time.Second

// Controller wires the level processor into HTTP handlers.
type Controller struct {
	Echo      *echo.Echo
	processor *levelmeter.Processor
	metrics   *metrics.LevelMeterMetrics
	logger    *slog.Logger
}

// New creates an API controller for the given processor. metrics may be
// nil when telemetry is disabled.
func New(processor *levelmeter.Processor, meterMetrics *metrics.LevelMeterMetrics) *Controller {
	logger := logging.ForService("api")
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	c := &Controller{
		Echo:      e,
		processor: processor,
		metrics:   meterMetrics,
		logger:    logger,
	}
	c.registerRoutes()
	return c
}

func (c *Controller) registerRoutes() {
	v1 := c.Echo.Group("/api/v1")
	v1.GET("/level", c.GetLevel)
	v1.GET("/level/history", c.GetLevelHistory)
	v1.GET("/config", c.GetConfig)
	v1.PUT("/config", c.UpdateConfig)
	v1.GET("/status", c.GetStatus)
	v1.POST("/reset", c.Reset)

	c.Echo.GET("/healthz", c.Health)
}

// Start runs the HTTP server until the quit channel closes.
func (c *Controller) Start(listenAddress string, quitChan <-chan struct{}) {
	go func() {
		c.logger.Info("api server starting", "address", listenAddress)
		if err := c.Echo.Start(listenAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.logger.Error("api server error", "error", err)
		}
	}()

	go func() {
		<-quitChan
		c.logger.Info("stopping api server")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := c.Echo.Shutdown(ctx); err != nil {
			c.logger.Error("api server shutdown error", "error", err)
		}
	}()
}

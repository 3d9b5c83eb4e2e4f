package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/levelmeter-go/internal/levelmeter"
)

// configDTO is the wire shape of a meter configuration.
type configDTO struct {
	SampleRate    float64 `json:"sample_rate"`
	RMSAttackMs   float64 `json:"rms_attack_ms"`
	RMSReleaseMs  float64 `json:"rms_release_ms"`
	PeakAttackMs  float64 `json:"peak_attack_ms"`
	PeakReleaseMs float64 `json:"peak_release_ms"`
	DBFloor       float64 `json:"db_floor"`
	DBCeiling     float64 `json:"db_ceiling"`
	HistorySize   int     `json:"history_size"`
}

func toConfigDTO(cfg levelmeter.Config) configDTO {
	return configDTO{
		SampleRate:    cfg.SampleRate,
		RMSAttackMs:   cfg.RMSAttackMs,
		RMSReleaseMs:  cfg.RMSReleaseMs,
		PeakAttackMs:  cfg.PeakAttackMs,
		PeakReleaseMs: cfg.PeakReleaseMs,
		DBFloor:       cfg.DBFloor,
		DBCeiling:     cfg.DBCeiling,
		HistorySize:   cfg.HistorySize,
	}
}

func (d *configDTO) toConfig() levelmeter.Config {
	return levelmeter.Config{
		SampleRate:    d.SampleRate,
		RMSAttackMs:   d.RMSAttackMs,
		RMSReleaseMs:  d.RMSReleaseMs,
		PeakAttackMs:  d.PeakAttackMs,
		PeakReleaseMs: d.PeakReleaseMs,
		DBFloor:       d.DBFloor,
		DBCeiling:     d.DBCeiling,
		HistorySize:   d.HistorySize,
	}
}

// statusDTO reports processor readiness.
type statusDTO struct {
	Initialized bool `json:"initialized"`
	HistoryLen  int  `json:"history_length"`
}

// GetLevel returns the current measurement as the canonical export
// document.
func (c *Controller) GetLevel(ctx echo.Context) error {
	doc, err := c.processor.ExportJSON()
	if err != nil {
		c.logger.Error("level export failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "level export failed")
	}
	return ctx.JSONBlob(http.StatusOK, []byte(doc))
}

// GetLevelHistory returns up to ?count recent measurements, newest first.
// A missing or zero count returns everything retained.
func (c *Controller) GetLevelHistory(ctx echo.Context) error {
	count := 0
	if raw := ctx.QueryParam("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "count must be a non-negative integer")
		}
		count = parsed
	}

	doc, err := c.processor.ExportHistoryJSON(count)
	if err != nil {
		c.logger.Error("history export failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "history export failed")
	}
	return ctx.JSONBlob(http.StatusOK, []byte(doc))
}

// GetConfig returns the active meter configuration.
func (c *Controller) GetConfig(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, toConfigDTO(c.processor.Config()))
}

// UpdateConfig validates and installs a new meter configuration. An
// invalid configuration is rejected without partial application.
func (c *Controller) UpdateConfig(ctx echo.Context) error {
	var dto configDTO
	if err := ctx.Bind(&dto); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed configuration")
	}

	if !c.processor.UpdateConfig(dto.toConfig()) {
		if c.metrics != nil {
			c.metrics.RecordConfigUpdate("rejected")
		}
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid configuration")
	}
	if c.metrics != nil {
		c.metrics.RecordConfigUpdate("accepted")
	}

	c.logger.Info("meter configuration updated via api")
	return ctx.JSON(http.StatusOK, toConfigDTO(c.processor.Config()))
}

// GetStatus reports processor readiness and history depth.
func (c *Controller) GetStatus(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, statusDTO{
		Initialized: c.processor.IsInitialized(),
		HistoryLen:  c.processor.HistoryLen(),
	})
}

// Reset zeroes the running meter state and clears history.
func (c *Controller) Reset(ctx echo.Context) error {
	c.processor.Reset()
	c.logger.Info("meter reset via api")
	return ctx.NoContent(http.StatusNoContent)
}

// Health is a liveness probe.
func (c *Controller) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "ok")
}

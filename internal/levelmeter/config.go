package levelmeter

import (
	"github.com/tphakala/levelmeter-go/internal/errors"
)

// Config holds the level meter tuning parameters. A Config is installed as
// a whole; partial updates are not possible.
type Config struct {
	SampleRate    float64 // audio sample rate in Hz
	RMSAttackMs   float64 // RMS attack time constant in milliseconds
	RMSReleaseMs  float64 // RMS release time constant in milliseconds
	PeakAttackMs  float64 // peak attack time constant in milliseconds
	PeakReleaseMs float64 // peak release time constant in milliseconds
	DBFloor       float64 // minimum dB level (silence floor)
	DBCeiling     float64 // maximum dB level (clipping threshold)
	HistorySize   int     // measurements to retain, 0 disables history
}

// DefaultConfig returns the standard meter tuning: 10/100 ms RMS ballistics,
// 1/300 ms peak ballistics, -60 dB floor, +6 dB ceiling, 100 entries of
// history at 44.1 kHz.
func DefaultConfig() Config {
	return Config{
		SampleRate:    44100.0,
		RMSAttackMs:   10.0,
		RMSReleaseMs:  100.0,
		PeakAttackMs:  1.0,
		PeakReleaseMs: 300.0,
		DBFloor:       -60.0,
		DBCeiling:     6.0,
		HistorySize:   100,
	}
}

// Validate reports the first constraint the configuration violates.
func (c *Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return errors.Newf("sample rate must be positive, got %g", c.SampleRate).
			Component("levelmeter").
			Category(errors.CategoryValidation).
			Context("field", "SampleRate").
			Build()
	case c.RMSAttackMs <= 0:
		return errors.Newf("RMS attack time must be positive, got %g", c.RMSAttackMs).
			Component("levelmeter").
			Category(errors.CategoryValidation).
			Context("field", "RMSAttackMs").
			Build()
	case c.RMSReleaseMs <= 0:
		return errors.Newf("RMS release time must be positive, got %g", c.RMSReleaseMs).
			Component("levelmeter").
			Category(errors.CategoryValidation).
			Context("field", "RMSReleaseMs").
			Build()
	case c.PeakAttackMs <= 0:
		return errors.Newf("peak attack time must be positive, got %g", c.PeakAttackMs).
			Component("levelmeter").
			Category(errors.CategoryValidation).
			Context("field", "PeakAttackMs").
			Build()
	case c.PeakReleaseMs <= 0:
		return errors.Newf("peak release time must be positive, got %g", c.PeakReleaseMs).
			Component("levelmeter").
			Category(errors.CategoryValidation).
			Context("field", "PeakReleaseMs").
			Build()
	case c.DBFloor >= c.DBCeiling:
		return errors.Newf("dB floor %g must be below ceiling %g", c.DBFloor, c.DBCeiling).
			Component("levelmeter").
			Category(errors.CategoryValidation).
			Context("field", "DBFloor").
			Build()
	case c.HistorySize < 0:
		return errors.Newf("history size must not be negative, got %d", c.HistorySize).
			Component("levelmeter").
			Category(errors.CategoryValidation).
			Context("field", "HistorySize").
			Build()
	}
	return nil
}

// IsValid reports whether the configuration can be installed.
func (c *Config) IsValid() bool {
	return c.Validate() == nil
}

package conf

import (
	"github.com/tphakala/levelmeter-go/internal/errors"
)

// ValidateSettings checks application level constraints. Meter parameter
// validation itself is owned by the levelmeter package; this only rejects
// values the application cannot start with.
func ValidateSettings(settings *Settings) error {
	meterCfg := settings.MeterConfig()
	if err := meterCfg.Validate(); err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("section", "meter").
			Build()
	}

	audio := &settings.Realtime.Audio
	if audio.Channels < 1 || audio.Channels > 8 {
		return errors.Newf("capture channel count %d out of range [1,8]", audio.Channels).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("section", "realtime.audio").
			Build()
	}
	if audio.ChunkMs <= 0 {
		return errors.Newf("chunk duration must be positive, got %d ms", audio.ChunkMs).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("section", "realtime.audio").
			Build()
	}

	if settings.Realtime.Telemetry.Enabled && settings.Realtime.Telemetry.Listen == "" {
		return errors.Newf("telemetry enabled without a listen address").
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("section", "realtime.telemetry").
			Build()
	}
	if settings.Realtime.API.Enabled && settings.Realtime.API.Listen == "" {
		return errors.Newf("api enabled without a listen address").
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("section", "realtime.api").
			Build()
	}

	return nil
}

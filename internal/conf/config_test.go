package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validSettings returns settings that pass validation, used as the base
// for the mutation tests below.
func validSettings() *Settings {
	return &Settings{
		Meter: MeterSettings{
			SampleRate:    44100,
			RMSAttackMs:   10,
			RMSReleaseMs:  100,
			PeakAttackMs:  1,
			PeakReleaseMs: 300,
			DBFloor:       -60,
			DBCeiling:     6,
			HistorySize:   100,
		},
		Realtime: RealtimeSettings{
			Audio: AudioSettings{
				Channels: 2,
				ChunkMs:  50,
			},
			Telemetry: TelemetrySettings{Enabled: false, Listen: "0.0.0.0:8090"},
			API:       APISettings{Enabled: false, Listen: "0.0.0.0:8080"},
		},
	}
}

func TestValidateSettingsAcceptsDefaults(t *testing.T) {
	require.NoError(t, ValidateSettings(validSettings()))
}

func TestValidateSettingsRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero sample rate", func(s *Settings) { s.Meter.SampleRate = 0 }},
		{"floor above ceiling", func(s *Settings) { s.Meter.DBFloor = 10; s.Meter.DBCeiling = 0 }},
		{"negative history", func(s *Settings) { s.Meter.HistorySize = -1 }},
		{"zero channels", func(s *Settings) { s.Realtime.Audio.Channels = 0 }},
		{"too many channels", func(s *Settings) { s.Realtime.Audio.Channels = 9 }},
		{"zero chunk duration", func(s *Settings) { s.Realtime.Audio.ChunkMs = 0 }},
		{"telemetry without listen", func(s *Settings) {
			s.Realtime.Telemetry.Enabled = true
			s.Realtime.Telemetry.Listen = ""
		}},
		{"api without listen", func(s *Settings) {
			s.Realtime.API.Enabled = true
			s.Realtime.API.Listen = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := validSettings()
			tt.mutate(settings)
			assert.Error(t, ValidateSettings(settings))
		})
	}
}

func TestMeterConfigMapsAllFields(t *testing.T) {
	settings := validSettings()
	cfg := settings.MeterConfig()

	assert.InDelta(t, 44100.0, cfg.SampleRate, 0)
	assert.InDelta(t, 10.0, cfg.RMSAttackMs, 0)
	assert.InDelta(t, 100.0, cfg.RMSReleaseMs, 0)
	assert.InDelta(t, 1.0, cfg.PeakAttackMs, 0)
	assert.InDelta(t, 300.0, cfg.PeakReleaseMs, 0)
	assert.InDelta(t, -60.0, cfg.DBFloor, 0)
	assert.InDelta(t, 6.0, cfg.DBCeiling, 0)
	assert.Equal(t, 100, cfg.HistorySize)
	assert.True(t, cfg.IsValid())
}

func TestZeroHistorySizeIsValid(t *testing.T) {
	settings := validSettings()
	settings.Meter.HistorySize = 0
	require.NoError(t, ValidateSettings(settings))
}

// Package conf loads and provides application settings from config files,
// environment variables and command line flags via viper.
package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"

	"github.com/tphakala/levelmeter-go/internal/levelmeter"
)

// LogConfig defines the configuration for a log file
type LogConfig struct {
	Enabled bool   // true to enable this log
	Path    string // path to log file
}

// MainSettings contains general application settings
type MainSettings struct {
	Name string    // name of the running node
	Log  LogConfig // main log configuration
}

// MeterSettings contains the level meter tuning parameters. These map
// one-to-one onto levelmeter.Config.
type MeterSettings struct {
	SampleRate    float64 // audio sample rate in Hz
	RMSAttackMs   float64 // RMS attack time constant in milliseconds
	RMSReleaseMs  float64 // RMS release time constant in milliseconds
	PeakAttackMs  float64 // peak attack time constant in milliseconds
	PeakReleaseMs float64 // peak release time constant in milliseconds
	DBFloor       float64 // silence floor in dB
	DBCeiling     float64 // clipping ceiling in dB
	HistorySize   int     // number of measurements to retain, 0 disables history
}

// AudioSettings contains audio capture settings
type AudioSettings struct {
	Source   string // capture device name, empty for system default
	Channels int    // number of capture channels
	ChunkMs  int    // chunk duration handed to the meter, in milliseconds
}

// TelemetrySettings contains prometheus endpoint settings
type TelemetrySettings struct {
	Enabled bool   // true to enable Prometheus compatible telemetry endpoint
	Listen  string // IP address and port to listen on, e.g. 0.0.0.0:8090
}

// APISettings contains the HTTP API settings
type APISettings struct {
	Enabled bool   // true to enable the HTTP level API
	Listen  string // IP address and port to listen on, e.g. 0.0.0.0:8080
}

// RealtimeSettings contains settings for realtime metering
type RealtimeSettings struct {
	Audio     AudioSettings
	Telemetry TelemetrySettings
	API       APISettings
}

// Settings contains all application settings
type Settings struct {
	Debug bool // true to enable debug logging

	Main     MainSettings
	Meter    MeterSettings
	Realtime RealtimeSettings
}

var (
	settingsInstance *Settings
	settingsOnce     sync.Once
	settingsMutex    sync.RWMutex
)

// MeterConfig builds a levelmeter.Config from the meter settings.
func (s *Settings) MeterConfig() levelmeter.Config {
	return levelmeter.Config{
		SampleRate:    s.Meter.SampleRate,
		RMSAttackMs:   s.Meter.RMSAttackMs,
		RMSReleaseMs:  s.Meter.RMSReleaseMs,
		PeakAttackMs:  s.Meter.PeakAttackMs,
		PeakReleaseMs: s.Meter.PeakReleaseMs,
		DBFloor:       s.Meter.DBFloor,
		DBCeiling:     s.Meter.DBCeiling,
		HistorySize:   s.Meter.HistorySize,
	}
}

// Load reads the configuration into a new Settings struct.
func Load() (*Settings, error) {
	settings := &Settings{}

	initViper()

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}

	settingsMutex.Lock()
	settingsInstance = settings
	settingsMutex.Unlock()
	return settings, nil
}

// initViper sets defaults and reads an optional config file.
func initViper() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths := configPaths()
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !asConfigFileNotFound(err, &notFound) {
			fmt.Fprintf(os.Stderr, "error reading config file: %v\n", err)
		}
		// Missing config file is fine, defaults apply.
	}
}

func asConfigFileNotFound(err error, target *viper.ConfigFileNotFoundError) bool {
	if e, ok := err.(viper.ConfigFileNotFoundError); ok {
		*target = e
		return true
	}
	return false
}

// configPaths returns the list of directories searched for config.yaml.
func configPaths() []string {
	paths := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "levelmeter-go"))
	}
	return paths
}

// Setting returns the current settings instance, loading defaults if
// Load has not been called.
func Setting() *Settings {
	settingsOnce.Do(func() {
		settingsMutex.RLock()
		loaded := settingsInstance != nil
		settingsMutex.RUnlock()
		if !loaded {
			if _, err := Load(); err != nil {
				fmt.Fprintf(os.Stderr, "error loading settings: %v\n", err)
			}
		}
	})
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

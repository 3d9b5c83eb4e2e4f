package conf

import (
	"github.com/spf13/viper"
)

// setDefaultConfig registers the default value for every known setting.
// Values mirror the levelmeter package defaults so that a missing config
// file yields a working meter.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	// Main settings
	viper.SetDefault("main.name", "levelmeter")
	viper.SetDefault("main.log.enabled", false)
	viper.SetDefault("main.log.path", "levelmeter.log")

	// Meter settings
	viper.SetDefault("meter.samplerate", 44100.0)
	viper.SetDefault("meter.rmsattackms", 10.0)
	viper.SetDefault("meter.rmsreleasems", 100.0)
	viper.SetDefault("meter.peakattackms", 1.0)
	viper.SetDefault("meter.peakreleasems", 300.0)
	viper.SetDefault("meter.dbfloor", -60.0)
	viper.SetDefault("meter.dbceiling", 6.0)
	viper.SetDefault("meter.historysize", 100)

	// Realtime settings
	viper.SetDefault("realtime.audio.source", "")
	viper.SetDefault("realtime.audio.channels", 1)
	viper.SetDefault("realtime.audio.chunkms", 50)
	viper.SetDefault("realtime.telemetry.enabled", false)
	viper.SetDefault("realtime.telemetry.listen", "0.0.0.0:8090")
	viper.SetDefault("realtime.api.enabled", false)
	viper.SetDefault("realtime.api.listen", "0.0.0.0:8080")
}

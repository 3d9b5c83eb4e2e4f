// Package cmd assembles the command line interface.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/levelmeter-go/cmd/file"
	"github.com/tphakala/levelmeter-go/cmd/realtime"
	"github.com/tphakala/levelmeter-go/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "levelmeter",
		Short: "Real-time audio level meter",
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, settings); err != nil {
		panic(err)
	}

	// Add sub-commands to the root command.
	subcommands := []*cobra.Command{
		file.Command(settings),
		realtime.Command(settings),
	}

	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().Float64Var(&settings.Meter.SampleRate, "samplerate", viper.GetFloat64("meter.samplerate"), "Audio sample rate in Hz for live capture")
	rootCmd.PersistentFlags().Float64Var(&settings.Meter.RMSAttackMs, "rmsattack", viper.GetFloat64("meter.rmsattackms"), "RMS attack time constant in milliseconds")
	rootCmd.PersistentFlags().Float64Var(&settings.Meter.RMSReleaseMs, "rmsrelease", viper.GetFloat64("meter.rmsreleasems"), "RMS release time constant in milliseconds")
	rootCmd.PersistentFlags().Float64Var(&settings.Meter.PeakAttackMs, "peakattack", viper.GetFloat64("meter.peakattackms"), "Peak attack time constant in milliseconds")
	rootCmd.PersistentFlags().Float64Var(&settings.Meter.PeakReleaseMs, "peakrelease", viper.GetFloat64("meter.peakreleasems"), "Peak release time constant in milliseconds")
	rootCmd.PersistentFlags().Float64Var(&settings.Meter.DBFloor, "dbfloor", viper.GetFloat64("meter.dbfloor"), "Silence floor in dB")
	rootCmd.PersistentFlags().Float64Var(&settings.Meter.DBCeiling, "dbceiling", viper.GetFloat64("meter.dbceiling"), "Clipping ceiling in dB")
	rootCmd.PersistentFlags().IntVar(&settings.Meter.HistorySize, "history", viper.GetInt("meter.historysize"), "Number of measurements to retain, 0 disables history")

	// Bind flags to the viper settings
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}

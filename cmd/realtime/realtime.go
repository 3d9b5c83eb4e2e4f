// Package realtime implements the live capture metering subcommand.
package realtime

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/levelmeter-go/internal/analysis"
	"github.com/tphakala/levelmeter-go/internal/conf"
)

// Command creates a new command for real-time audio metering.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "realtime",
		Short: "Meter live audio in realtime mode",
		Long:  "Start metering incoming audio from a capture device in real-time.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return analysis.RealtimeAnalysis(settings)
		},
	}

	// Set up flags specific to the 'realtime' command
	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the realtime command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.Realtime.Audio.Source, "source", viper.GetString("realtime.audio.source"), "Audio capture source (\"sysdefault\", \"USB Audio\", etc.)")
	cmd.Flags().IntVar(&settings.Realtime.Audio.Channels, "channels", viper.GetInt("realtime.audio.channels"), "Number of capture channels")
	cmd.Flags().IntVar(&settings.Realtime.Audio.ChunkMs, "chunk", viper.GetInt("realtime.audio.chunkms"), "Chunk duration handed to the meter, in milliseconds")
	cmd.Flags().BoolVar(&settings.Realtime.Telemetry.Enabled, "telemetry", viper.GetBool("realtime.telemetry.enabled"), "Enable Prometheus telemetry endpoint")
	cmd.Flags().StringVar(&settings.Realtime.Telemetry.Listen, "listen", viper.GetString("realtime.telemetry.listen"), "Listen address and port of telemetry endpoint")
	cmd.Flags().BoolVar(&settings.Realtime.API.Enabled, "api", viper.GetBool("realtime.api.enabled"), "Enable the HTTP level API")
	cmd.Flags().StringVar(&settings.Realtime.API.Listen, "apilisten", viper.GetString("realtime.api.listen"), "Listen address and port of the HTTP level API")

	// Bind flags to the viper settings
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}

package analysis

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/tphakala/levelmeter-go/internal/api"
	"github.com/tphakala/levelmeter-go/internal/capture"
	"github.com/tphakala/levelmeter-go/internal/conf"
	"github.com/tphakala/levelmeter-go/internal/levelmeter"
	"github.com/tphakala/levelmeter-go/internal/observability"
)

// RealtimeAnalysis starts live device metering and blocks until a
// termination signal arrives.
func RealtimeAnalysis(settings *conf.Settings) error {
	cfg := settings.MeterConfig()
	processor := levelmeter.New(cfg)
	if !processor.IsInitialized() {
		return cfg.Validate()
	}

	fmt.Printf("Starting level meter in realtime mode. Sample rate: %v Hz, chunk: %d ms, source: %q\n",
		settings.Meter.SampleRate,
		settings.Realtime.Audio.ChunkMs,
		settings.Realtime.Audio.Source)

	obs, err := observability.NewMetrics()
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	quitChan := make(chan struct{})

	source := settings.Realtime.Audio.Source
	if source == "" {
		source = "default"
	}

	meterMetrics := obs.LevelMeter
	onChunk := func(samples []float64, numChannels int) {
		start := time.Now()
		m, err := processor.ProcessAudio(samples, numChannels)
		if err != nil {
			meterMetrics.RecordProcessingError(source, "process_audio")
			return
		}
		meterMetrics.RecordProcessingDuration(time.Since(start).Seconds())
		meterMetrics.RecordChunkProcessed(source, len(samples))
		meterMetrics.UpdateLevels(source, m.RMSDB, m.PeakDB, processor.HistoryLen())
	}

	dev := capture.New(settings, onChunk)
	if err := dev.Start(&wg, quitChan); err != nil {
		return err
	}

	if settings.Realtime.Telemetry.Enabled {
		endpoint, err := observability.NewEndpoint(settings, obs)
		if err != nil {
			return err
		}
		endpoint.Start(&wg, quitChan)
	}

	if settings.Realtime.API.Enabled {
		controller := api.New(processor, meterMetrics)
		controller.Start(settings.Realtime.API.Listen, quitChan)
	}

	// Wait for a termination signal.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("Shutting down")
	close(quitChan)
	wg.Wait()

	return nil
}

// Package metrics provides Prometheus metric collectors for the level
// metering pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// LevelMeterMetrics contains Prometheus metrics for level meter operations
type LevelMeterMetrics struct {
	registry *prometheus.Registry

	chunksProcessedTotal *prometheus.CounterVec
	processingErrors     *prometheus.CounterVec
	processingDuration   prometheus.Histogram
	samplesProcessed     prometheus.Counter

	rmsLevelGauge      *prometheus.GaugeVec
	peakLevelGauge     *prometheus.GaugeVec
	historyLengthGauge *prometheus.GaugeVec

	configUpdatesTotal *prometheus.CounterVec
}

// NewLevelMeterMetrics creates and registers new level meter metrics
func NewLevelMeterMetrics(registry *prometheus.Registry) (*LevelMeterMetrics, error) {
	m := &LevelMeterMetrics{registry: registry}
	if err := m.initMetrics(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *LevelMeterMetrics) initMetrics() error {
	m.chunksProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "levelmeter_chunks_processed_total",
			Help: "Total number of audio chunks processed by the level meter",
		},
		[]string{"source"},
	)

	m.processingErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "levelmeter_processing_errors_total",
			Help: "Total number of failed level meter processing calls",
		},
		[]string{"source", "kind"},
	)

	m.processingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "levelmeter_processing_duration_seconds",
			Help:    "Time taken to process one audio chunk",
			Buckets: prometheus.ExponentialBuckets(0.000001, 4, 10),
		},
	)

	m.samplesProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "levelmeter_samples_processed_total",
			Help: "Total number of audio samples fed to the level meter",
		},
	)

	m.rmsLevelGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "levelmeter_rms_db",
			Help: "Current smoothed RMS level in dBFS",
		},
		[]string{"source"},
	)

	m.peakLevelGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "levelmeter_peak_db",
			Help: "Current smoothed peak level in dBFS",
		},
		[]string{"source"},
	)

	m.historyLengthGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "levelmeter_history_length",
			Help: "Number of measurements currently retained in history",
		},
		[]string{"source"},
	)

	m.configUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "levelmeter_config_updates_total",
			Help: "Total number of configuration update attempts",
		},
		[]string{"result"},
	)

	collectors := []prometheus.Collector{
		m.chunksProcessedTotal,
		m.processingErrors,
		m.processingDuration,
		m.samplesProcessed,
		m.rmsLevelGauge,
		m.peakLevelGauge,
		m.historyLengthGauge,
		m.configUpdatesTotal,
	}
	for _, collector := range collectors {
		if err := m.registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// RecordChunkProcessed increments the processed chunk counter and the
// sample counter.
func (m *LevelMeterMetrics) RecordChunkProcessed(source string, sampleCount int) {
	m.chunksProcessedTotal.WithLabelValues(source).Inc()
	m.samplesProcessed.Add(float64(sampleCount))
}

// RecordProcessingError increments the error counter for the given kind.
func (m *LevelMeterMetrics) RecordProcessingError(source, kind string) {
	m.processingErrors.WithLabelValues(source, kind).Inc()
}

// RecordProcessingDuration observes one chunk processing duration in
// seconds.
func (m *LevelMeterMetrics) RecordProcessingDuration(seconds float64) {
	m.processingDuration.Observe(seconds)
}

// UpdateLevels publishes the current dB readings and history depth.
func (m *LevelMeterMetrics) UpdateLevels(source string, rmsDB, peakDB float64, historyLen int) {
	m.rmsLevelGauge.WithLabelValues(source).Set(rmsDB)
	m.peakLevelGauge.WithLabelValues(source).Set(peakDB)
	m.historyLengthGauge.WithLabelValues(source).Set(float64(historyLen))
}

// RecordConfigUpdate counts a configuration update attempt by result
// ("accepted" or "rejected").
func (m *LevelMeterMetrics) RecordConfigUpdate(result string) {
	m.configUpdatesTotal.WithLabelValues(result).Inc()
}

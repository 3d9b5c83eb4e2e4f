package levelmeter

import (
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tphakala/levelmeter-go/internal/errors"
	"github.com/tphakala/levelmeter-go/internal/logging"
)

// atomicFloat64 publishes a float64 through an atomic bit pattern so the
// hot read path never takes a lock.
type atomicFloat64 struct {
	bits atomic.Uint64
}

func (f *atomicFloat64) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

func (f *atomicFloat64) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}

// Processor is the level metering engine. It is an explicitly owned handle
// with no ambient global state; construct one per audio stream.
//
// A Processor built from an invalid configuration stays uninitialized
// forever: processing calls fail fast and a later valid UpdateConfig does
// not revive it, matching construction-time validation semantics.
type Processor struct {
	// Current level scalars, independently and atomically published.
	rmsLinear  atomicFloat64
	peakLinear atomicFloat64
	rmsDB      atomicFloat64
	peakDB     atomicFloat64

	// lastUpdate holds the unix nanoseconds of the latest measurement.
	lastUpdate atomic.Int64

	initialized atomic.Bool

	// mu guards config, coeffs and history together so a capacity change
	// can never race with an append mid-mutation.
	mu      sync.Mutex
	config  Config
	coeffs  coefficients
	history levelHistory

	logger *slog.Logger
}

// New creates a processor with the given configuration. If the
// configuration is invalid the processor is returned uninitialized and
// every processing call fails with ErrNotInitialized.
func New(cfg Config) *Processor {
	logger := logging.ForService("levelmeter")
	if logger == nil {
		logger = slog.Default()
	}

	p := &Processor{
		config: cfg,
		logger: logger,
	}

	if cfg.IsValid() {
		p.coeffs = deriveCoefficients(&cfg)
		p.rmsDB.Store(cfg.DBFloor)
		p.peakDB.Store(cfg.DBFloor)
		p.lastUpdate.Store(time.Now().UnixNano())
		p.initialized.Store(true)

		logger.Debug("level processor created",
			"sample_rate", cfg.SampleRate,
			"db_floor", cfg.DBFloor,
			"db_ceiling", cfg.DBCeiling,
			"history_size", cfg.HistorySize)
	} else {
		logger.Error("level processor created with invalid configuration",
			"error", cfg.Validate())
	}

	return p
}

// NewDefault creates a processor with DefaultConfig.
func NewDefault() *Processor {
	return New(DefaultConfig())
}

// ProcessAudio analyzes one chunk of interleaved samples, advances the
// smoothing filters, publishes the current level and appends the resulting
// measurement to history. Samples are linear amplitudes, nominally in
// [-1, 1] but not clamped. A failed call leaves all state untouched.
func (p *Processor) ProcessAudio(samples []float64, numChannels int) (Measurement, error) {
	if !p.initialized.Load() {
		return Measurement{}, ErrNotInitialized
	}
	if len(samples) == 0 {
		return Measurement{}, errors.New(ErrInvalidAudioData).
			Component("levelmeter").
			Category(errors.CategoryValidation).
			Context("reason", "empty sample buffer").
			Build()
	}
	if numChannels < MinChannels || numChannels > MaxChannels {
		return Measurement{}, errors.New(ErrInvalidAudioData).
			Component("levelmeter").
			Category(errors.CategoryValidation).
			Context("reason", "channel count out of range").
			Context("num_channels", numChannels).
			Build()
	}

	return p.processChunk(samples, numChannels)
}

// processChunk runs the per-chunk pipeline. Any panic in the body degrades
// to ErrInternal so a fault never propagates into the audio callback.
func (p *Processor) processChunk(samples []float64, numChannels int) (m Measurement, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("level processing fault contained",
				"panic", r,
				"sample_count", len(samples),
				"num_channels", numChannels)
			m = Measurement{}
			err = errors.New(ErrInternal).
				Component("levelmeter").
				Category(errors.CategorySystem).
				Context("panic", r).
				Build()
		}
	}()

	rawRMS, rawPeak := analyzeChunk(samples, numChannels)

	prevRMS := p.rmsLinear.Load()
	prevPeak := p.peakLinear.Load()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Rising values take the attack coefficient, falling or equal values
	// the release coefficient. At equality the delta is zero, so the
	// branch does not matter; release keeps it deterministic.
	rmsCoeff := p.coeffs.rmsRelease
	if rawRMS > prevRMS {
		rmsCoeff = p.coeffs.rmsAttack
	}
	peakCoeff := p.coeffs.peakRelease
	if rawPeak > prevPeak {
		peakCoeff = p.coeffs.peakAttack
	}

	smoothedRMS := prevRMS + rmsCoeff*(rawRMS-prevRMS)
	smoothedPeak := prevPeak + peakCoeff*(rawPeak-prevPeak)

	m = Measurement{
		RMSLinear:  smoothedRMS,
		RMSDB:      LinearToDB(smoothedRMS, p.config.DBFloor, p.config.DBCeiling),
		PeakLinear: smoothedPeak,
		PeakDB:     LinearToDB(smoothedPeak, p.config.DBFloor, p.config.DBCeiling),
		Timestamp:  time.Now(),
	}

	p.rmsLinear.Store(m.RMSLinear)
	p.peakLinear.Store(m.PeakLinear)
	p.rmsDB.Store(m.RMSDB)
	p.peakDB.Store(m.PeakDB)
	p.lastUpdate.Store(m.Timestamp.UnixNano())

	p.history.append(m, p.config.HistorySize)

	return m, nil
}

// CurrentLevel returns the latest published measurement. It never fails
// and never blocks; before any processing it reports zero linear levels at
// the configured floor.
func (p *Processor) CurrentLevel() Measurement {
	return Measurement{
		RMSLinear:  p.rmsLinear.Load(),
		RMSDB:      p.rmsDB.Load(),
		PeakLinear: p.peakLinear.Load(),
		PeakDB:     p.peakDB.Load(),
		Timestamp:  time.Unix(0, p.lastUpdate.Load()),
	}
}

// History returns up to maxCount of the most recent measurements, newest
// first. maxCount of zero returns everything retained.
func (p *Processor) History(maxCount int) []Measurement {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history.query(maxCount)
}

// HistoryLen reports the number of retained measurements.
func (p *Processor) HistoryLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history.len()
}

// Reset zeroes the running state back to the configured floor and clears
// history. Configuration is preserved. Calling it repeatedly is a no-op
// after the first call.
func (p *Processor) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.rmsLinear.Store(0)
	p.peakLinear.Store(0)
	p.rmsDB.Store(p.config.DBFloor)
	p.peakDB.Store(p.config.DBFloor)
	p.lastUpdate.Store(time.Now().UnixNano())

	p.history.clear()
}

// UpdateConfig validates and atomically installs a new configuration,
// recomputing the smoothing coefficients and trimming history to the new
// capacity. It returns false and changes nothing when the configuration is
// invalid. An uninitialized processor stays uninitialized.
func (p *Processor) UpdateConfig(newConfig Config) bool {
	if err := newConfig.Validate(); err != nil {
		p.logger.Warn("rejected invalid configuration update", "error", err)
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.config = newConfig
	p.coeffs = deriveCoefficients(&newConfig)
	p.history.trim(newConfig.HistorySize)

	p.logger.Debug("configuration updated",
		"sample_rate", newConfig.SampleRate,
		"history_size", newConfig.HistorySize)
	return true
}

// Config returns a copy of the active configuration.
func (p *Processor) Config() Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.config
}

// IsInitialized reports whether a valid configuration was installed at
// construction time.
func (p *Processor) IsInitialized() bool {
	return p.initialized.Load()
}

package levelmeter

import "math"

// Smoothing coefficient clamp bounds. The lower bound keeps very long time
// constants from freezing the filter entirely.
const (
	minCoefficient = 0.001
	maxCoefficient = 1.0
)

// coefficients holds the four derived exponential smoothing factors.
// They are recomputed whenever a configuration is installed and are never
// set directly by callers.
type coefficients struct {
	rmsAttack   float64
	rmsRelease  float64
	peakAttack  float64
	peakRelease float64
}

// deriveCoefficients converts the configured time constants into per-update
// smoothing factors: coeff = 1 - exp(-1 / (timeConstantMs * sampleRate/1000)),
// clamped to [0.001, 1.0].
func deriveCoefficients(cfg *Config) coefficients {
	sampleRateMs := cfg.SampleRate / 1000.0
	coeff := func(timeConstantMs float64) float64 {
		c := 1.0 - math.Exp(-1.0/(timeConstantMs*sampleRateMs))
		return min(max(c, minCoefficient), maxCoefficient)
	}

	return coefficients{
		rmsAttack:   coeff(cfg.RMSAttackMs),
		rmsRelease:  coeff(cfg.RMSReleaseMs),
		peakAttack:  coeff(cfg.PeakAttackMs),
		peakRelease: coeff(cfg.PeakReleaseMs),
	}
}

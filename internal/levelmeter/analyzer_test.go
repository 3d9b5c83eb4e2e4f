package levelmeter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeChunk_BasicCases(t *testing.T) {
	tests := []struct {
		name         string
		samples      []float64
		numChannels  int
		expectedRMS  float64
		expectedPeak float64
		delta        float64
	}{
		{
			name:         "mono_constant",
			samples:      []float64{0.5, 0.5, 0.5, 0.5},
			numChannels:  1,
			expectedRMS:  0.5,
			expectedPeak: 0.5,
			delta:        1e-12,
		},
		{
			name:         "mono_negative_constant",
			samples:      []float64{-0.25, -0.25, -0.25, -0.25},
			numChannels:  1,
			expectedRMS:  0.25,
			expectedPeak: 0.25,
			delta:        1e-12,
		},
		{
			name:        "stereo_phase_cancellation",
			samples:     []float64{1.0, -1.0, 1.0, -1.0},
			numChannels: 2,
			// Down-mix averages to zero, peak still sees full amplitude.
			expectedRMS:  0.0,
			expectedPeak: 1.0,
			delta:        1e-12,
		},
		{
			name:         "stereo_in_phase",
			samples:      []float64{0.5, 0.5, 0.5, 0.5},
			numChannels:  2,
			expectedRMS:  0.5,
			expectedPeak: 0.5,
			delta:        1e-12,
		},
		{
			name:         "all_zeros",
			samples:      []float64{0, 0, 0, 0},
			numChannels:  1,
			expectedRMS:  0.0,
			expectedPeak: 0.0,
			delta:        0,
		},
		{
			name:        "amplitude_above_unity_not_clamped",
			samples:     []float64{2.0, 2.0},
			numChannels: 1,
			// Input is not clamped to [-1, 1].
			expectedRMS:  2.0,
			expectedPeak: 2.0,
			delta:        1e-12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rms, peak := analyzeChunk(tt.samples, tt.numChannels)
			assert.InDelta(t, tt.expectedRMS, rms, tt.delta)
			assert.InDelta(t, tt.expectedPeak, peak, tt.delta)
		})
	}
}

func TestAnalyzeChunk_PartialFrameDropped(t *testing.T) {
	// Five samples over two channels: two whole frames, trailing sample
	// dropped. The 0.9 straggler must not influence either value.
	samples := []float64{0.5, 0.5, 0.5, 0.5, 0.9}
	rms, peak := analyzeChunk(samples, 2)

	assert.InDelta(t, 0.5, rms, 1e-12)
	assert.InDelta(t, 0.5, peak, 1e-12)
}

func TestAnalyzeChunk_ZeroWholeFrames(t *testing.T) {
	// Fewer samples than channels: zero frames, defined as silent.
	rms, peak := analyzeChunk([]float64{0.7}, 8)

	assert.Zero(t, rms)
	assert.Zero(t, peak)
}

func TestAnalyzeChunk_SineWaveRMS(t *testing.T) {
	// For a pure sine wave, RMS = amplitude / sqrt(2).
	const (
		amplitude  = 0.8
		sampleRate = 48000.0
		frequency  = 1000.0
	)
	samples := make([]float64, 48000)
	for i := range samples {
		samples[i] = amplitude * math.Sin(2*math.Pi*frequency*float64(i)/sampleRate)
	}

	rms, peak := analyzeChunk(samples, 1)

	assert.InDelta(t, amplitude/math.Sqrt2, rms, amplitude*0.001)
	assert.InDelta(t, amplitude, peak, amplitude*0.001)
}

func TestAnalyzeChunk_OutputsNonNegative(t *testing.T) {
	samples := []float64{-0.9, 0.3, -0.2, 0.1, -0.8, 0.6}
	for channels := 1; channels <= 3; channels++ {
		rms, peak := analyzeChunk(samples, channels)
		assert.GreaterOrEqual(t, rms, 0.0, "channels=%d", channels)
		assert.GreaterOrEqual(t, peak, 0.0, "channels=%d", channels)
	}
}

package levelmeter

import "math"

// Channel count limits for interleaved input.
const (
	MinChannels = 1
	MaxChannels = 8
)

// analyzeChunk reduces a block of interleaved samples to one linear RMS and
// one linear peak value. Each frame is down-mixed by averaging its channel
// values before squaring; the peak tracks the maximum absolute sample of
// any channel so transients survive phase cancellation across channels.
// A trailing partial frame is dropped. Callers validate the channel count.
//
// The average-then-square RMS reduction is deliberate: downstream
// attack/release tuning is calibrated against it, so it must not be
// replaced with per-channel RMS.
func analyzeChunk(samples []float64, numChannels int) (rmsLinear, peakLinear float64) {
	frames := len(samples) / numChannels
	if frames == 0 {
		return 0, 0
	}

	var sumSquares, peak float64
	for frame := 0; frame < frames; frame++ {
		base := frame * numChannels
		var frameSum, framePeak float64
		for ch := 0; ch < numChannels; ch++ {
			sample := samples[base+ch]
			frameSum += sample
			if abs := math.Abs(sample); abs > framePeak {
				framePeak = abs
			}
		}

		avgAmplitude := frameSum / float64(numChannels)
		sumSquares += avgAmplitude * avgAmplitude
		if framePeak > peak {
			peak = framePeak
		}
	}

	return math.Sqrt(sumSquares / float64(frames)), peak
}

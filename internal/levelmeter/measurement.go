package levelmeter

import (
	"fmt"
	"time"
)

// Measurement is an immutable snapshot of the meter state after one chunk.
type Measurement struct {
	RMSLinear  float64   // smoothed RMS level, linear amplitude
	RMSDB      float64   // smoothed RMS level in dB, clamped to [floor, ceiling]
	PeakLinear float64   // smoothed peak level, linear amplitude
	PeakDB     float64   // smoothed peak level in dB, clamped to [floor, ceiling]
	Timestamp  time.Time // when the measurement was produced
}

// String renders the measurement for human-readable log lines.
func (m Measurement) String() string {
	return fmt.Sprintf("rms %.1f dBFS, peak %.1f dBFS", m.RMSDB, m.PeakDB)
}

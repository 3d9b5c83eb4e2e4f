// Package levelmeter implements real-time audio level metering with
// asymmetric attack/release smoothing and a bounded measurement history.
//
// The processor uses split state for thread safety: the four current level
// scalars (linear and dB values for RMS and peak) are published through
// independent atomics so readers on UI or export paths never block the
// audio producer, while configuration and history share a single mutex so
// a capacity change can never race with a history append.
//
// Thread-Safety Pattern:
//   - CurrentLevel reads only atomics and never takes a lock
//   - ProcessAudio takes the shared mutex once per chunk for smoothing
//     state and the history append
//   - UpdateConfig swaps configuration and recomputes coefficients inside
//     the same critical section that trims history
//
// Cross-scalar consistency of CurrentLevel during a concurrent
// ProcessAudio is intentionally not guaranteed; each scalar is
// individually atomic.
package levelmeter

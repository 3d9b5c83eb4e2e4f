package levelmeter

import (
	"github.com/tphakala/levelmeter-go/internal/errors"
)

// Error sentinel values for the processor API. ProcessAudio never panics
// past its boundary; every failure maps to one of these.
var (
	// ErrNotInitialized is returned when processing is attempted before a
	// valid configuration was ever installed.
	ErrNotInitialized = errors.Newf("level processor not initialized").
		Component("levelmeter").
		Category(errors.CategoryState).
		Context("operation", "process_audio").
		Build()

	// ErrInvalidAudioData is returned for an empty sample buffer or a
	// channel count outside [1,8].
	ErrInvalidAudioData = errors.Newf("invalid audio data").
		Component("levelmeter").
		Category(errors.CategoryValidation).
		Context("operation", "process_audio").
		Build()

	// ErrInternal is returned when the processing body faults
	// unexpectedly. State from before the failed call stays intact.
	ErrInternal = errors.Newf("internal level processing error").
		Component("levelmeter").
		Category(errors.CategorySystem).
		Context("operation", "process_audio").
		Build()
)

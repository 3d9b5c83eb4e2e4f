// Package analysis contains the entry points for the file and realtime
// metering modes invoked by the command line interface.
package analysis

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/tphakala/levelmeter-go/internal/conf"
	"github.com/tphakala/levelmeter-go/internal/errors"
	"github.com/tphakala/levelmeter-go/internal/levelmeter"
)

// reportInterval is how much audio passes between printed meter lines.
const reportInterval = 500 * time.Millisecond

// FileAnalysis meters a WAV file chunk by chunk and prints the level
// readings. It returns the final smoothed measurement.
func FileAnalysis(settings *conf.Settings, inputPath string) error {
	if err := validateAudioFile(inputPath); err != nil {
		return err
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return errors.New(err).
			Component("analysis").
			Category(errors.CategoryFileIO).
			Context("path", inputPath).
			Build()
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return errors.Newf("input is not a valid WAV audio file").
			Component("analysis").
			Category(errors.CategoryFileIO).
			Context("path", inputPath).
			Build()
	}

	divisor, err := audioDivisor(int(decoder.BitDepth))
	if err != nil {
		return err
	}

	numChannels := int(decoder.NumChans)
	sampleRate := int(decoder.SampleRate)

	if settings.Debug {
		fmt.Println("Sample rate:", decoder.SampleRate)
		fmt.Println("Bits per sample:", decoder.BitDepth)
		fmt.Println("Channels:", decoder.NumChans)
	}

	// Meter the file at its own rate, the configured rate only applies
	// to live capture.
	cfg := settings.MeterConfig()
	cfg.SampleRate = float64(sampleRate)

	processor := levelmeter.New(cfg)
	if !processor.IsInitialized() {
		return cfg.Validate()
	}

	chunkFrames := sampleRate * settings.Realtime.Audio.ChunkMs / 1000
	if chunkFrames < 1 {
		chunkFrames = 1
	}
	chunkSamples := chunkFrames * numChannels
	framesPerReport := int(float64(sampleRate) * reportInterval.Seconds())

	buf := &audio.IntBuffer{
		Data:   make([]int, chunkSamples),
		Format: &audio.Format{SampleRate: sampleRate, NumChannels: numChannels},
	}
	chunk := make([]float64, 0, chunkSamples)

	fmt.Printf("Metering %s (%d Hz, %d ch, %d bit)\n",
		filepath.Base(inputPath), sampleRate, numChannels, decoder.BitDepth)

	framesProcessed := 0
	framesSinceReport := 0
	for {
		n, err := decoder.PCMBuffer(buf)
		if err != nil {
			return errors.New(err).
				Component("analysis").
				Category(errors.CategoryFileIO).
				Context("path", inputPath).
				Context("operation", "read_pcm").
				Build()
		}
		if n == 0 {
			break
		}

		for _, sample := range buf.Data[:n] {
			chunk = append(chunk, float64(sample)/divisor)
		}

		for len(chunk) >= chunkSamples {
			if _, err := processor.ProcessAudio(chunk[:chunkSamples], numChannels); err != nil {
				return err
			}
			remaining := copy(chunk, chunk[chunkSamples:])
			chunk = chunk[:remaining]

			framesProcessed += chunkFrames
			framesSinceReport += chunkFrames
			if framesSinceReport >= framesPerReport {
				framesSinceReport = 0
				printMeterLine(processor, framesProcessed, sampleRate, cfg)
			}
		}
	}

	// Meter the trailing partial chunk as well, levels should reflect
	// the whole file.
	if len(chunk) >= numChannels {
		if _, err := processor.ProcessAudio(chunk, numChannels); err != nil {
			return err
		}
	}

	m := processor.CurrentLevel()
	fmt.Printf("\nFinal levels: %s\n", m.String())

	out, err := processor.ExportJSON()
	if err != nil {
		return err
	}
	fmt.Println(out)

	return nil
}

// printMeterLine renders one progress line with a bar per measurement.
func printMeterLine(processor *levelmeter.Processor, frames, sampleRate int, cfg levelmeter.Config) {
	m := processor.CurrentLevel()
	position := time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second))
	fmt.Printf("%8s  %s %6.1f dBFS  peak %6.1f dBFS\n",
		position.Truncate(100*time.Millisecond),
		renderBar(m.RMSDB, cfg.DBFloor, cfg.DBCeiling, 30),
		m.RMSDB, m.PeakDB)
}

// renderBar draws a fixed width level bar scaled between floor and ceiling.
func renderBar(db, floor, ceiling float64, width int) string {
	if ceiling <= floor {
		return strings.Repeat(" ", width)
	}
	fraction := (db - floor) / (ceiling - floor)
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

// validateAudioFile checks that the input path points at a non-empty file.
func validateAudioFile(filePath string) error {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return errors.New(err).
			Component("analysis").
			Category(errors.CategoryFileIO).
			Context("path", filePath).
			Build()
	}

	if fileInfo.IsDir() {
		return errors.Newf("the path %s is a directory, not a file", filepath.Base(filePath)).
			Component("analysis").
			Category(errors.CategoryFileIO).
			Build()
	}

	if fileInfo.Size() == 0 {
		return errors.Newf("file %s is empty", filepath.Base(filePath)).
			Component("analysis").
			Category(errors.CategoryFileIO).
			Build()
	}

	return nil
}

// audioDivisor returns the value a PCM sample is divided by to reach the
// -1.0 to 1.0 range.
func audioDivisor(bitDepth int) (float64, error) {
	switch bitDepth {
	case 16:
		return 32768.0, nil
	case 24:
		return 8388608.0, nil
	case 32:
		return 2147483648.0, nil
	default:
		return 0, errors.Newf("unsupported bit depth: %d", bitDepth).
			Component("analysis").
			Category(errors.CategoryAudio).
			Build()
	}
}

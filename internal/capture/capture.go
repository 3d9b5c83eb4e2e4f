// Package capture feeds live device audio to a chunk consumer using the
// malgo (miniaudio) bindings.
package capture

import (
	"encoding/binary"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gen2brain/malgo"

	"github.com/tphakala/levelmeter-go/internal/conf"
	"github.com/tphakala/levelmeter-go/internal/errors"
	"github.com/tphakala/levelmeter-go/internal/logging"
)

// ChunkFunc consumes one chunk of interleaved linear amplitude samples.
type ChunkFunc func(samples []float64, numChannels int)

// restartDelay is the pause before attempting to restart a stopped device.
const restartDelay = 100 * time.Millisecond

// Capture owns a malgo context and capture device.
type Capture struct {
	settings *conf.Settings
	onChunk  ChunkFunc
	logger   *slog.Logger

	ctx    *malgo.AllocatedContext
	device *malgo.Device

	// chunk accumulation state, touched only from the device callback
	chunk     []float64
	chunkSize int
}

// New creates a capture handle. The consumer receives chunks of
// settings.Realtime.Audio.ChunkMs worth of interleaved samples.
func New(settings *conf.Settings, onChunk ChunkFunc) *Capture {
	logger := logging.ForService("capture")
	if logger == nil {
		logger = slog.Default()
	}

	audio := &settings.Realtime.Audio
	chunkFrames := int(settings.Meter.SampleRate) * audio.ChunkMs / 1000
	if chunkFrames < 1 {
		chunkFrames = 1
	}

	return &Capture{
		settings:  settings,
		onChunk:   onChunk,
		logger:    logger,
		chunk:     make([]float64, 0, chunkFrames*audio.Channels),
		chunkSize: chunkFrames * audio.Channels,
	}
}

// backendForOS picks the native audio backend, mirroring what miniaudio
// would auto-select but keeping ALSA first on Linux.
func backendForOS() []malgo.Backend {
	switch runtime.GOOS {
	case "linux":
		return []malgo.Backend{malgo.BackendAlsa}
	case "windows":
		return []malgo.Backend{malgo.BackendWasapi}
	case "darwin":
		return []malgo.Backend{malgo.BackendCoreaudio}
	default:
		return nil
	}
}

// Start opens the configured capture device and begins delivering chunks.
// It returns once the device is running; Run blocks until quitChan closes.
func (c *Capture) Start(wg *sync.WaitGroup, quitChan <-chan struct{}) error {
	malgoCtx, err := malgo.InitContext(backendForOS(), malgo.ContextConfig{}, func(message string) {
		c.logger.Debug("malgo", "message", strings.TrimSpace(message))
	})
	if err != nil {
		return errors.New(err).
			Component("capture").
			Category(errors.CategoryAudioSource).
			Context("operation", "init_context").
			Build()
	}
	c.ctx = malgoCtx

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = uint32(c.settings.Realtime.Audio.Channels)
	deviceConfig.SampleRate = uint32(c.settings.Meter.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	if source := c.settings.Realtime.Audio.Source; source != "" {
		deviceID, err := c.findDevice(source)
		if err != nil {
			c.uninitContext()
			return err
		}
		deviceConfig.Capture.DeviceID = deviceID.Pointer()
	}

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: c.onReceiveFrames,
		Stop: func() { c.onStopDevice(quitChan) },
	}

	device, err := malgo.InitDevice(malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		c.uninitContext()
		return errors.New(err).
			Component("capture").
			Category(errors.CategoryAudioSource).
			Context("operation", "init_device").
			Context("source", c.settings.Realtime.Audio.Source).
			Build()
	}
	c.device = device

	if err := device.Start(); err != nil {
		device.Uninit()
		c.uninitContext()
		return errors.New(err).
			Component("capture").
			Category(errors.CategoryAudioSource).
			Context("operation", "start_device").
			Build()
	}

	c.logger.Info("audio capture started",
		"source", c.settings.Realtime.Audio.Source,
		"sample_rate", c.settings.Meter.SampleRate,
		"channels", c.settings.Realtime.Audio.Channels)

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-quitChan
		c.logger.Info("stopping audio capture")
		_ = c.device.Stop()
		c.device.Uninit()
		c.uninitContext()
	}()

	return nil
}

// findDevice matches a capture device by case-insensitive name substring.
func (c *Capture) findDevice(source string) (*malgo.DeviceID, error) {
	infos, err := c.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, errors.New(err).
			Component("capture").
			Category(errors.CategoryAudioSource).
			Context("operation", "list_devices").
			Build()
	}

	for i := range infos {
		if strings.Contains(strings.ToLower(infos[i].Name()), strings.ToLower(source)) {
			id := infos[i].ID
			return &id, nil
		}
	}

	return nil, errors.Newf("no capture device matching %q", source).
		Component("capture").
		Category(errors.CategoryAudioSource).
		Context("operation", "select_device").
		Build()
}

// onReceiveFrames converts S16LE frames to linear float64 amplitudes and
// hands complete chunks to the consumer.
func (c *Capture) onReceiveFrames(_, pSamples []byte, _ uint32) {
	for i := 0; i+1 < len(pSamples); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(pSamples[i : i+2]))
		c.chunk = append(c.chunk, float64(sample)/32768.0)
	}

	for len(c.chunk) >= c.chunkSize {
		c.onChunk(c.chunk[:c.chunkSize], c.settings.Realtime.Audio.Channels)
		remaining := copy(c.chunk, c.chunk[c.chunkSize:])
		c.chunk = c.chunk[:remaining]
	}
}

// onStopDevice restarts the device after an unexpected stop unless the
// application is quitting.
func (c *Capture) onStopDevice(quitChan <-chan struct{}) {
	go func() {
		select {
		case <-quitChan:
			return
		case <-time.After(restartDelay):
			c.logger.Warn("audio device stopped unexpectedly, restarting")
			if err := c.device.Start(); err != nil {
				c.logger.Error("failed to restart audio device", "error", err)
			}
		}
	}()
}

func (c *Capture) uninitContext() {
	if c.ctx != nil {
		_ = c.ctx.Uninit()
		c.ctx.Free()
		c.ctx = nil
	}
}

package device

import (
	"fmt"
	"unsafe"

	"github.com/gen2brain/malgo"

	"github.com/tphakala/audiopipe/internal/stream"
)

// StreamConfig describes the device stream to open.
type StreamConfig struct {
	Device     string // device name, decoded ID or "default"
	Channels   int
	SampleRate int
	FrameSize  int // frames per hardware period
}

// Session is an open device stream. Start begins callback delivery; Close
// stops the device and releases it.
type Session struct {
	device *malgo.Device
	Name   string // name of the device actually opened
}

func (s *Session) Start() error {
	if err := s.device.Start(); err != nil {
		return fmt.Errorf("failed to start audio device: %w", err)
	}
	return nil
}

func (s *Session) Close() {
	_ = s.device.Stop()
	s.device.Uninit()
}

// OpenCapture opens a capture stream delivering periods to sink on the
// device's callback thread. The device runs in float32 so callback buffers
// can be reinterpreted without conversion.
func (m *Manager) OpenCapture(cfg StreamConfig, sink stream.CaptureSink) (*Session, error) {
	selected, err := m.selectDevice(malgo.Capture, cfg.Device)
	if err != nil {
		return nil, err
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = uint32(cfg.Channels)
	deviceConfig.SampleRate = uint32(cfg.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(cfg.FrameSize)
	deviceConfig.Alsa.NoMMap = 1

	name := "default"
	if selected != nil {
		deviceConfig.Capture.DeviceID = selected.ID.Pointer()
		name = selected.Name()
	}

	onRecvFrames := func(pOutputSamples, pInputSamples []byte, frameCount uint32) {
		if frameCount == 0 || len(pInputSamples) == 0 {
			return
		}
		sink.WriteFrames(floatView(pInputSamples), int(frameCount))
	}

	dev, err := malgo.InitDevice(m.ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onRecvFrames,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open capture stream: %w", err)
	}

	return &Session{device: dev, Name: name}, nil
}

// OpenPlayback opens a playback stream pulling periods from source on the
// device's callback thread.
func (m *Manager) OpenPlayback(cfg StreamConfig, source stream.PlaybackSource) (*Session, error) {
	selected, err := m.selectDevice(malgo.Playback, cfg.Device)
	if err != nil {
		return nil, err
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = uint32(cfg.Channels)
	deviceConfig.SampleRate = uint32(cfg.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(cfg.FrameSize)
	deviceConfig.Alsa.NoMMap = 1

	name := "default"
	if selected != nil {
		deviceConfig.Playback.DeviceID = selected.ID.Pointer()
		name = selected.Name()
	}

	onSendFrames := func(pOutputSamples, pInputSamples []byte, frameCount uint32) {
		if frameCount == 0 || len(pOutputSamples) == 0 {
			return
		}
		source.ReadFrames(floatView(pOutputSamples), int(frameCount))
	}

	dev, err := malgo.InitDevice(m.ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onSendFrames,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open playback stream: %w", err)
	}

	return &Session{device: dev, Name: name}, nil
}

// floatView reinterprets a callback byte buffer as the float32 samples it
// holds. The buffer is owned by miniaudio for the duration of the callback,
// so no copy is needed.
func floatView(b []byte) []float32 {
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), len(b)/4)
}

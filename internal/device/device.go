// Package device wraps the miniaudio bindings: device enumeration and
// opening capture/playback streams that hand interleaved float32 samples to
// the stream package on the device's real-time callback thread.
package device

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/gen2brain/malgo"
)

// Info describes an audio device for listing and selection.
type Info struct {
	Index     int
	Name      string
	ID        string
	IsDefault bool
}

// Manager owns the miniaudio context shared by all device operations.
type Manager struct {
	ctx *malgo.AllocatedContext
}

// NewManager initializes the miniaudio context with an OS appropriate
// backend.
func NewManager() (*Manager, error) {
	var backends []malgo.Backend
	switch runtime.GOOS {
	case "linux":
		backends = []malgo.Backend{malgo.BackendAlsa}
	case "windows":
		backends = []malgo.Backend{malgo.BackendWasapi}
	case "darwin":
		backends = []malgo.Backend{malgo.BackendCoreaudio}
	}

	ctx, err := malgo.InitContext(backends, malgo.ContextConfig{}, func(message string) {
		slog.Debug("miniaudio", "message", strings.TrimSpace(message))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	return &Manager{ctx: ctx}, nil
}

// Close releases the miniaudio context.
func (m *Manager) Close() error {
	return m.ctx.Uninit()
}

// CaptureDevices lists the available capture devices.
func (m *Manager) CaptureDevices() ([]Info, error) {
	return m.devices(malgo.Capture)
}

// PlaybackDevices lists the available playback devices.
func (m *Manager) PlaybackDevices() ([]Info, error) {
	return m.devices(malgo.Playback)
}

func (m *Manager) devices(kind malgo.DeviceType) ([]Info, error) {
	infos, err := m.ctx.Devices(kind)
	if err != nil {
		return nil, fmt.Errorf("failed to get devices: %w", err)
	}

	devices := make([]Info, 0, len(infos))
	for i, info := range infos {
		decodedID, err := hexToASCII(info.ID.String())
		if err != nil {
			slog.Debug("skipping device with undecodable ID", "index", i, "error", err)
			continue
		}

		devices = append(devices, Info{
			Index:     i,
			Name:      info.Name(),
			ID:        decodedID,
			IsDefault: info.IsDefault == 1,
		})
	}

	return devices, nil
}

// selectDevice picks the device matching the user's setting. "default" or an
// empty string selects the backend's default device (a nil device ID).
func (m *Manager) selectDevice(kind malgo.DeviceType, setting string) (*malgo.DeviceInfo, error) {
	if setting == "" || setting == "default" {
		return nil, nil
	}

	infos, err := m.ctx.Devices(kind)
	if err != nil {
		return nil, fmt.Errorf("failed to get devices: %w", err)
	}

	for i := range infos {
		decodedID, err := hexToASCII(infos[i].ID.String())
		if err != nil {
			continue
		}
		if matchesDeviceSetting(decodedID, &infos[i], setting) {
			return &infos[i], nil
		}
	}

	return nil, fmt.Errorf("no device found matching %q", setting)
}

// matchesDeviceSetting checks if a device matches the user's device setting,
// by decoded ID or name substring.
func matchesDeviceSetting(decodedID string, info *malgo.DeviceInfo, setting string) bool {
	if runtime.GOOS == "windows" && setting == "sysdefault" {
		// Windows has no "sysdefault" device, use the backend default.
		return info.IsDefault == 1
	}
	return decodedID == setting || strings.Contains(info.Name(), setting)
}

// hexToASCII converts a hexadecimal device ID string to ASCII.
func hexToASCII(hexStr string) (string, error) {
	bytes, err := hex.DecodeString(hexStr)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(bytes), "\x00"), nil
}

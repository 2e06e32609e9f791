// Package run implements the record and play session entry points invoked
// by the CLI commands.
package run

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tphakala/audiopipe/internal/codec"
	"github.com/tphakala/audiopipe/internal/conf"
	"github.com/tphakala/audiopipe/internal/device"
	"github.com/tphakala/audiopipe/internal/stream"
)

// Record captures audio from the configured device into filename until ctx
// is cancelled or a write error occurs.
func Record(ctx context.Context, settings *conf.Settings, filename string) error {
	writer, err := codec.NewWriter(filename, settings.Audio.SampleRate, settings.Audio.Channels)
	if err != nil {
		return err
	}

	capture := stream.NewCapture(writer, settings.Audio.SampleRate, settings.Audio.Channels, conf.FrameSize)

	manager, err := device.NewManager()
	if err != nil {
		return err
	}
	defer manager.Close() //nolint:errcheck

	session, err := manager.OpenCapture(device.StreamConfig{
		Device:     settings.Audio.Device,
		Channels:   settings.Audio.Channels,
		SampleRate: settings.Audio.SampleRate,
		FrameSize:  conf.FrameSize,
	}, capture)
	if err != nil {
		// Stream open failure aborts before any coordination starts.
		_ = writer.Close()
		return err
	}

	fmt.Printf("Recording to: %s\n", filename)
	fmt.Printf("Device: %s\n", session.Name)
	fmt.Printf("Sample rate: %d Hz\n", settings.Audio.SampleRate)
	fmt.Printf("Channels: %d\n", settings.Audio.Channels)
	fmt.Printf("Frame size: %d\n", conf.FrameSize)

	if err := session.Start(); err != nil {
		session.Close()
		_ = writer.Close()
		return err
	}

	runErr := capture.Run(ctx)

	// Stop the device before flushing so the callback no longer produces.
	session.Close()
	fmt.Println()

	if runErr == nil {
		runErr = capture.Flush()
	}

	if err := writer.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to finalize output file: %w", err)
	}

	if d := capture.Dropped(); d > 0 {
		slog.Warn("recording lost samples to buffer overflow", "samples", d)
	}

	return runErr
}

package run

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tphakala/audiopipe/internal/codec"
	"github.com/tphakala/audiopipe/internal/conf"
	"github.com/tphakala/audiopipe/internal/device"
	"github.com/tphakala/audiopipe/internal/stream"
)

// Play streams filename to the configured playback device until the file
// ends, ctx is cancelled, or a read error occurs.
func Play(ctx context.Context, settings *conf.Settings, filename string) error {
	reader, err := codec.OpenReader(filename)
	if err != nil {
		return err
	}
	defer reader.Close() //nolint:errcheck

	info := reader.Info()
	playback := stream.NewPlayback(reader, conf.FrameSize)

	manager, err := device.NewManager()
	if err != nil {
		return err
	}
	defer manager.Close() //nolint:errcheck

	session, err := manager.OpenPlayback(device.StreamConfig{
		Device:     settings.Audio.Device,
		Channels:   info.Channels,
		SampleRate: info.SampleRate,
		FrameSize:  conf.FrameSize,
	}, playback)
	if err != nil {
		// Stream open failure aborts before any coordination starts.
		return err
	}

	fmt.Printf("Playing: %s\n", filename)
	fmt.Printf("Device: %s\n", session.Name)
	fmt.Printf("Sample rate: %d Hz\n", info.SampleRate)
	fmt.Printf("Channels: %d\n", info.Channels)
	if info.TotalFrames > 0 {
		duration := time.Duration(info.TotalFrames) * time.Second / time.Duration(info.SampleRate)
		fmt.Printf("Duration: %s\n", duration.Round(time.Second))
	}

	if err := session.Start(); err != nil {
		session.Close()
		return err
	}
	defer session.Close()

	if err := playback.Run(ctx); err != nil {
		return err
	}

	// The file is fully buffered; let the device drain the tail before the
	// stream closes.
	drain := time.NewTicker(10 * time.Millisecond)
	defer drain.Stop()
	for playback.Buffered() >= int64(conf.FrameSize) {
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case <-drain.C:
		}
	}
	fmt.Println()

	if u := playback.Underruns(); u > 0 {
		slog.Debug("playback substituted silence on underrun", "periods", u)
	}

	return nil
}

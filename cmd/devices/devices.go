package devices

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tphakala/audiopipe/internal/device"
)

// Command creates the devices command, listing available audio devices.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List available audio devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listDevices()
		},
	}

	return cmd
}

func listDevices() error {
	manager, err := device.NewManager()
	if err != nil {
		return err
	}
	defer manager.Close() //nolint:errcheck

	capture, err := manager.CaptureDevices()
	if err != nil {
		return err
	}
	playback, err := manager.PlaybackDevices()
	if err != nil {
		return err
	}

	fmt.Println("Capture devices:")
	printDevices(capture)
	fmt.Println()
	fmt.Println("Playback devices:")
	printDevices(playback)

	return nil
}

func printDevices(devices []device.Info) {
	if len(devices) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, d := range devices {
		line := fmt.Sprintf("  %d: %s", d.Index, d.Name)
		if runtime.GOOS == "linux" {
			// ALSA device IDs are useful for the --device flag.
			line = fmt.Sprintf("%s, %s", line, d.ID)
		}
		if d.IsDefault {
			line += " [default]"
		}
		fmt.Println(line)
	}
}

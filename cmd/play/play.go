package play

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/audiopipe/internal/conf"
	"github.com/tphakala/audiopipe/internal/run"
)

// Command creates the play command, streaming an audio file to a device.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play [input file]",
		Short: "Play an audio file",
		Long:  `Play streams a WAV, FLAC, MP3 or Ogg Vorbis file to the selected playback device.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run.Play(cmd.Context(), settings, args[0])
		},
	}

	return cmd
}

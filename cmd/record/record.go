package record

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/audiopipe/internal/conf"
	"github.com/tphakala/audiopipe/internal/run"
)

// Command creates the record command, capturing audio to a WAV file.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record [output.wav]",
		Short: "Record audio from a capture device to a WAV file",
		Long:  `Record captures audio from the selected device and writes it to a 16-bit PCM WAV file until interrupted.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run.Record(cmd.Context(), settings, args[0])
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().IntVarP(&settings.Audio.Channels, "channels", "c", viper.GetInt("audio.channels"), "Number of channels to record")
	cmd.Flags().IntVarP(&settings.Audio.SampleRate, "rate", "R", viper.GetInt("audio.samplerate"), "Sample rate in Hz")
}

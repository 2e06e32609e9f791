package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/audiopipe/cmd/devices"
	"github.com/tphakala/audiopipe/cmd/play"
	"github.com/tphakala/audiopipe/cmd/record"
	"github.com/tphakala/audiopipe/internal/conf"
	"github.com/tphakala/audiopipe/internal/logging"
)

// Version is the program version reported by --version.
const Version = "1.0.0"

// closeFileLogger is set when file logging is enabled and called after the
// command finishes.
var closeFileLogger func() error

// RootCommand creates and returns the root command.
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "audiopipe",
		Short:   "Record and play audio files",
		Version: Version,
	}

	setupFlags(rootCmd, settings)

	rootCmd.AddCommand(
		record.Command(settings),
		play.Command(settings),
		devices.Command(),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logging.Init(settings.Debug)

		if settings.Log.Enabled {
			logger, closer, err := logging.NewFileLogger(
				settings.Log.Path, settings.Log.MaxSize, settings.Log.MaxBackups, slog.LevelInfo)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			closeFileLogger = closer
		}
		return nil
	}

	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if closeFileLogger != nil {
			_ = closeFileLogger()
		}
	}

	return rootCmd
}

// setupFlags defines the flags shared by all subcommands.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Audio.Device, "device", viper.GetString("audio.device"), "Device name, ID or \"default\"")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		slog.Error("error binding flags", "error", err)
	}
}

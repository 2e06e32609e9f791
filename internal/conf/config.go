// conf/config.go viper backed configuration for audiopipe
package conf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Settings holds the runtime configuration, populated from defaults, an
// optional config.yaml and command line flags.
type Settings struct {
	Debug bool // print debug messages

	Audio struct {
		Device     string // capture/playback device name, ID or "default"
		Channels   int    // number of channels for recording
		SampleRate int    // sample rate in Hz for recording
	}

	Log struct {
		Enabled    bool   // true to log to file
		Path       string // path of log file
		MaxSize    int    // max log file size in MB before rotation
		MaxBackups int    // number of rotated files to keep
	}
}

// Load reads the configuration file and environment into a Settings struct.
func Load() (*Settings, error) {
	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := validateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	return settings, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := configPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// No config file is fine, defaults and flags cover everything.
			return nil
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// configPaths returns the directories searched for config.yaml, most
// specific first.
func configPaths() ([]string, error) {
	paths := []string{"."}

	configDir, err := os.UserConfigDir()
	if err != nil {
		// Not fatal, the current directory is still searched.
		return paths, nil //nolint:nilerr
	}

	return append(paths, filepath.Join(configDir, "audiopipe")), nil
}

func validateSettings(settings *Settings) error {
	if settings.Audio.Channels < 1 {
		return fmt.Errorf("invalid channel count: %d, must be at least 1", settings.Audio.Channels)
	}
	if settings.Audio.SampleRate < 1 {
		return fmt.Errorf("invalid sample rate: %d Hz, must be greater than 0", settings.Audio.SampleRate)
	}
	return nil
}

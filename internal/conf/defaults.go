// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("audio.device", "default")
	viper.SetDefault("audio.channels", DefaultChannels)
	viper.SetDefault("audio.samplerate", DefaultSampleRate)

	viper.SetDefault("log.enabled", false)
	viper.SetDefault("log.path", "audiopipe.log")
	viper.SetDefault("log.maxsize", 10)
	viper.SetDefault("log.maxbackups", 3)
}

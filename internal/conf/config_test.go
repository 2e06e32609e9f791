package conf

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Note: cannot run in parallel, viper state is global.
	viper.Reset()
	t.Chdir(t.TempDir()) // make sure no stray config.yaml is picked up

	settings, err := Load()
	require.NoError(t, err)

	assert.False(t, settings.Debug)
	assert.Equal(t, "default", settings.Audio.Device)
	assert.Equal(t, DefaultChannels, settings.Audio.Channels)
	assert.Equal(t, DefaultSampleRate, settings.Audio.SampleRate)
	assert.False(t, settings.Log.Enabled)
}

func TestValidateSettings(t *testing.T) {
	testCases := []struct {
		name       string
		channels   int
		sampleRate int
		wantErr    bool
	}{
		{"valid_mono", 1, 48000, false},
		{"valid_stereo", 2, 44100, false},
		{"zero_channels", 0, 48000, true},
		{"zero_rate", 1, 0, true},
		{"negative_rate", 1, -1, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			settings := &Settings{}
			settings.Audio.Channels = tc.channels
			settings.Audio.SampleRate = tc.sampleRate

			err := validateSettings(settings)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// conf/consts.go hard coded constants
package conf

const (
	DefaultSampleRate = 48000 // Sample rate used for recording unless overridden
	DefaultChannels   = 1     // Number of channels used for recording unless overridden
	BitDepth          = 16    // Bit depth of recorded WAV files
	FrameSize         = 512   // Frames per hardware period requested from the device
)

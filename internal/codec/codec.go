// Package codec provides frame-oriented readers and writers for audio files.
//
// All readers and writers exchange interleaved float32 samples in the range
// [-1, 1]; a frame is one sample per channel. Readers return io.EOF once the
// stream is exhausted, which is how playback tells a finished file apart
// from a real read error.
package codec

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Info describes an opened audio stream.
type Info struct {
	SampleRate  int
	Channels    int
	TotalFrames int64 // 0 when the container does not report a length
}

// Reader reads interleaved float32 frames from an audio file.
type Reader interface {
	// Info returns the stream parameters.
	Info() Info
	// ReadFrames fills dst with up to frames frames and returns the number
	// of frames read. At end of stream it returns io.EOF, possibly together
	// with a final short count.
	ReadFrames(dst []float32, frames int) (int, error)
	Close() error
}

// Writer writes interleaved float32 frames to an audio file.
type Writer interface {
	// WriteFrames writes frames frames from src and returns the number of
	// frames written. A short count is only returned together with an error.
	WriteFrames(src []float32, frames int) (int, error)
	Close() error
}

// OpenReader opens an audio file for reading, choosing the decoder from the
// file extension. Supported: .wav, .flac, .mp3, .ogg.
func OpenReader(path string) (Reader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return openWAVReader(path)
	case ".flac":
		return openFLACReader(path)
	case ".mp3":
		return openMP3Reader(path)
	case ".ogg":
		return openVorbisReader(path)
	default:
		return nil, fmt.Errorf("unsupported input format: %q", filepath.Ext(path))
	}
}

// NewWriter creates an audio file for writing. Recording always produces
// 16-bit PCM WAV, so only the .wav extension is accepted.
func NewWriter(path string, sampleRate, channels int) (Writer, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".wav" {
		return nil, fmt.Errorf("unsupported output format: %q, only .wav is supported", ext)
	}
	return newWAVWriter(path, sampleRate, channels)
}

// divisorForBitDepth returns the scale factor that maps integer PCM of the
// given bit depth onto [-1, 1].
func divisorForBitDepth(bitDepth int) (float32, error) {
	switch bitDepth {
	case 16:
		return 32768.0, nil
	case 24:
		return 8388608.0, nil
	case 32:
		return 2147483648.0, nil
	default:
		return 0, fmt.Errorf("unsupported bit depth: %d", bitDepth)
	}
}

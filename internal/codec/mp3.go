package codec

import (
	"errors"
	"io"
	"os"

	gomp3 "github.com/hajimehoshi/go-mp3"
)

// go-mp3 always outputs 16-bit little-endian stereo PCM.
const (
	mp3Channels      = 2
	mp3BytesPerFrame = mp3Channels * 2
)

type mp3Reader struct {
	file    *os.File
	decoder *gomp3.Decoder
	info    Info
	buf     []byte
}

func openMP3Reader(path string) (*mp3Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	decoder, err := gomp3.NewDecoder(file)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	return &mp3Reader{
		file:    file,
		decoder: decoder,
		info: Info{
			SampleRate:  decoder.SampleRate(),
			Channels:    mp3Channels,
			TotalFrames: decoder.Length() / mp3BytesPerFrame,
		},
	}, nil
}

func (r *mp3Reader) Info() Info { return r.info }

func (r *mp3Reader) ReadFrames(dst []float32, frames int) (int, error) {
	bytesNeeded := frames * mp3BytesPerFrame
	if cap(r.buf) < bytesNeeded {
		r.buf = make([]byte, bytesNeeded)
	}
	r.buf = r.buf[:bytesNeeded]

	n, err := io.ReadFull(r.decoder, r.buf)
	samples := n / 2
	for i := 0; i < samples; i++ {
		val := int16(uint16(r.buf[2*i]) | uint16(r.buf[2*i+1])<<8)
		dst[i] = float32(val) / 32768.0
	}

	framesRead := samples / mp3Channels
	switch {
	case err == nil:
		return framesRead, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return framesRead, io.EOF
	default:
		return framesRead, err
	}
}

func (r *mp3Reader) Close() error {
	return r.file.Close()
}

package codec

import (
	"encoding/binary"
	"errors"
	"io"
	"os"

	"github.com/tphakala/flac"
)

type flacReader struct {
	file     *os.File
	decoder  *flac.Decoder
	info     Info
	divisor  float32
	leftover []float32 // decoded samples not yet handed out
	scratch  []float32
}

func openFLACReader(path string) (*flacReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	decoder, err := flac.NewDecoder(file)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	divisor, err := divisorForBitDepth(decoder.BitsPerSample)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	return &flacReader{
		file:    file,
		decoder: decoder,
		divisor: divisor,
		info: Info{
			SampleRate:  decoder.SampleRate,
			Channels:    decoder.NChannels,
			TotalFrames: int64(decoder.TotalSamples),
		},
	}, nil
}

func (r *flacReader) Info() Info { return r.info }

func (r *flacReader) ReadFrames(dst []float32, frames int) (int, error) {
	want := frames * r.info.Channels
	filled := 0

	for filled < want {
		if len(r.leftover) > 0 {
			n := copy(dst[filled:want], r.leftover)
			r.leftover = r.leftover[n:]
			filled += n
			continue
		}

		frame, err := r.decoder.Next()
		if err != nil {
			framesRead := filled / r.info.Channels
			if errors.Is(err, io.EOF) {
				return framesRead, io.EOF
			}
			return framesRead, err
		}
		r.decodeFrame(frame)
	}

	return frames, nil
}

// decodeFrame converts one FLAC frame of little-endian PCM bytes into
// float32 samples held in leftover. Only called when leftover is empty.
func (r *flacReader) decodeFrame(frame []byte) {
	bytesPerSample := r.decoder.BitsPerSample / 8
	count := len(frame) / bytesPerSample

	r.scratch = r.scratch[:0]
	for i := 0; i < count; i++ {
		off := i * bytesPerSample
		var sample int32
		switch r.decoder.BitsPerSample {
		case 16:
			sample = int32(int16(binary.LittleEndian.Uint16(frame[off:])))
		case 24:
			sample = int32(frame[off]) | int32(frame[off+1])<<8 | int32(int8(frame[off+2]))<<16
		case 32:
			sample = int32(binary.LittleEndian.Uint32(frame[off:]))
		}
		r.scratch = append(r.scratch, float32(sample)/r.divisor)
	}
	r.leftover = r.scratch
}

func (r *flacReader) Close() error {
	return r.file.Close()
}

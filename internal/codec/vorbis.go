package codec

import (
	"errors"
	"io"
	"os"

	"github.com/jfreymuth/oggvorbis"
)

type vorbisReader struct {
	file    *os.File
	decoder *oggvorbis.Reader
	info    Info
}

func openVorbisReader(path string) (*vorbisReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	decoder, err := oggvorbis.NewReader(file)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	return &vorbisReader{
		file:    file,
		decoder: decoder,
		info: Info{
			SampleRate:  decoder.SampleRate(),
			Channels:    decoder.Channels(),
			TotalFrames: decoder.Length(),
		},
	}, nil
}

func (r *vorbisReader) Info() Info { return r.info }

func (r *vorbisReader) ReadFrames(dst []float32, frames int) (int, error) {
	// The vorbis decoder already produces interleaved float32, so it can
	// fill dst directly. Read returns sample counts, not frame counts.
	want := frames * r.info.Channels
	filled := 0

	for filled < want {
		n, err := r.decoder.Read(dst[filled:want])
		filled += n
		if err != nil {
			framesRead := filled / r.info.Channels
			if errors.Is(err, io.EOF) {
				return framesRead, io.EOF
			}
			return framesRead, err
		}
		if n == 0 {
			break
		}
	}

	return filled / r.info.Channels, nil
}

func (r *vorbisReader) Close() error {
	return r.file.Close()
}

package codec

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

type wavReader struct {
	file    *os.File
	decoder *wav.Decoder
	info    Info
	divisor float32
	pcm     *audio.IntBuffer
}

func openWAVReader(path string) (*wavReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	decoder := wav.NewDecoder(file)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		_ = file.Close()
		return nil, errors.New("input is not a valid WAV audio file")
	}

	if decoder.NumChans < 1 {
		_ = file.Close()
		return nil, fmt.Errorf("unsupported number of channels: %d", decoder.NumChans)
	}

	divisor, err := divisorForBitDepth(int(decoder.BitDepth))
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	// Total length estimated from the file size, close enough for progress
	// reporting.
	fileInfo, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	bytesPerFrame := int64(decoder.BitDepth/8) * int64(decoder.NumChans)
	totalFrames := fileInfo.Size() / bytesPerFrame

	channels := int(decoder.NumChans)
	return &wavReader{
		file:    file,
		decoder: decoder,
		divisor: divisor,
		info: Info{
			SampleRate:  int(decoder.SampleRate),
			Channels:    channels,
			TotalFrames: totalFrames,
		},
		pcm: &audio.IntBuffer{
			Format: &audio.Format{
				SampleRate:  int(decoder.SampleRate),
				NumChannels: channels,
			},
		},
	}, nil
}

func (r *wavReader) Info() Info { return r.info }

func (r *wavReader) ReadFrames(dst []float32, frames int) (int, error) {
	want := frames * r.info.Channels
	if cap(r.pcm.Data) < want {
		r.pcm.Data = make([]int, want)
	}
	r.pcm.Data = r.pcm.Data[:want]

	n, err := r.decoder.PCMBuffer(r.pcm)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}

	for i := 0; i < n; i++ {
		dst[i] = float32(r.pcm.Data[i]) / r.divisor
	}

	framesRead := n / r.info.Channels
	if n < want {
		return framesRead, io.EOF
	}
	return framesRead, nil
}

func (r *wavReader) Close() error {
	return r.file.Close()
}

type wavWriter struct {
	file     *os.File
	encoder  *wav.Encoder
	channels int
	pcm      *audio.IntBuffer
}

func newWAVWriter(path string, sampleRate, channels int) (*wavWriter, error) {
	outFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	const bitDepth = 16
	enc := wav.NewEncoder(outFile, sampleRate, bitDepth, channels, 1)

	return &wavWriter{
		file:     outFile,
		encoder:  enc,
		channels: channels,
		pcm: &audio.IntBuffer{
			Format: &audio.Format{
				SampleRate:  sampleRate,
				NumChannels: channels,
			},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

func (w *wavWriter) WriteFrames(src []float32, frames int) (int, error) {
	samples := frames * w.channels
	if cap(w.pcm.Data) < samples {
		w.pcm.Data = make([]int, samples)
	}
	w.pcm.Data = w.pcm.Data[:samples]

	for i := 0; i < samples; i++ {
		v := src[i]
		if v > 1.0 {
			v = 1.0
		} else if v < -1.0 {
			v = -1.0
		}
		w.pcm.Data[i] = int(v * 32767)
	}

	if err := w.encoder.Write(w.pcm); err != nil {
		return 0, fmt.Errorf("failed to write to WAV encoder: %w", err)
	}
	return frames, nil
}

// Close finalizes the WAV header and closes the file.
func (w *wavWriter) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

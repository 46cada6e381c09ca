// Package audio records microphone audio into WAV files that can be sent for
// denoising.
package audio

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/rs/zerolog"

	denoise "github.com/noisereduction/denoise-go"
)

// Recorder is a source of audio samples.
type Recorder interface {
	// Reader returns a source from which mono, 16-bit little-endian
	// samples can be read.
	Reader() io.Reader

	// Close shuts down the recorder prevent further successful reads from
	// the audio source.
	Close() error
}

// Device is a microphone capable of recording audio.
type Device struct {
	ID   string
	Name string
}

// Record reads d worth of audio at sampleRate from rec, and writes it to w as
// a mono 16-bit WAV file.
//
// When ctx is done before enough audio was read, rec is closed to stop the
// pending read, and the context error is returned. Callers must still close
// rec otherwise.
func Record(ctx context.Context, rec Recorder, w io.Writer, d time.Duration, sampleRate int) error {
	if d <= 0 {
		return fmt.Errorf("invalid duration %v", d)
	}
	if sampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", sampleRate)
	}

	sampleCount := int(math.Round(float64(sampleRate) * d.Seconds()))
	buf := make([]byte, 2*sampleCount) // For single channel, 16 bit samples.

	zerolog.Ctx(ctx).Info().Dur("duration", d).Int("rate", sampleRate).Msg("recording")

	done := make(chan error, 1)
	go func() {
		_, err := io.ReadFull(rec.Reader(), buf)
		done <- err
	}()

	select {
	case <-ctx.Done():
		rec.Close()
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("reading audio: %w", err)
		}
	}

	samples, err := denoise.DecodePCM16(buf)
	if err != nil {
		return err
	}
	return denoise.WriteWAV(w, samples, sampleRate, 1)
}

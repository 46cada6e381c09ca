package denoise

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Opts holds options for Run.
type Opts struct {
	InputPath  string // Audio file to upload, not validated.
	OutputPath string // WAV file to write, overwritten if it exists.

	// Sent as denoise_control. Nil means DefaultLevel, any other value is
	// passed through as is.
	Level *int

	// Written to the output WAV file. Never derived from the input file or
	// the response.
	SampleRate int
	Channels   int

	ResponseFormat ResponseFormat

	// If not empty, each raw response body is written to this directory.
	TraceDir string
}

// optsDefault has default option values for Run.
var optsDefault = Opts{
	InputPath:      "audio.wav",
	OutputPath:     "denoised_speech.wav",
	SampleRate:     44100,
	Channels:       1,
	ResponseFormat: ResponseFormatRaw,
}

// Level returns a pointer to level, for use in Opts.
func Level(level int) *int {
	return &level
}

// Run uploads the input file to the service using client c, decodes the
// response as 16-bit PCM, and writes it as a WAV file. Run returns the path
// of the written file.
//
// Opts and its fields can be nil or zero, in which case default values are
// used.
//
// Nothing is written when the request or decoding fails; see HTTPError,
// TransportError and DecodeError. Errors opening the input wrap the
// underlying *fs.PathError.
func Run(ctx context.Context, c *Client, opts *Opts) (string, error) {
	log := zerolog.Ctx(ctx)

	xopts := applyDefaults(opts)

	f, err := os.Open(xopts.InputPath)
	if err != nil {
		return "", fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	// Only used for diagnostics. The service decides what it accepts.
	if info, err := InspectWAV(f); err != nil {
		log.Warn().Err(err).Str("input", xopts.InputPath).Msg("cannot read input wav header, uploading as is")
	} else {
		log.Debug().Str("input", xopts.InputPath).Stringer("format", info).Msg("input audio")
		if info.SampleRate != xopts.SampleRate {
			log.Warn().Int("input_rate", info.SampleRate).Int("output_rate", xopts.SampleRate).Msg("input sample rate differs from output sample rate, output may play at the wrong speed")
		}
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewinding input: %w", err)
	}

	body, err := c.Denoise(ctx, filepath.Base(xopts.InputPath), f, *xopts.Level)
	if err != nil {
		return "", err
	}
	writeTrace(log, xopts.TraceDir, body)

	samples, err := DecodeResponse(body, xopts.ResponseFormat, xopts.Channels)
	if err != nil {
		return "", err
	}

	err = writeFileAtomic(xopts.OutputPath, func(w io.Writer) error {
		return WriteWAV(w, samples, xopts.SampleRate, xopts.Channels)
	})
	if err != nil {
		return "", fmt.Errorf("writing output: %w", err)
	}
	log.Info().Str("output", xopts.OutputPath).Int("samples", len(samples)).Int("rate", xopts.SampleRate).Msg("wrote denoised audio")
	return xopts.OutputPath, nil
}

func applyDefaults(opts *Opts) Opts {
	var xopts Opts
	if opts != nil {
		xopts = *opts
	}
	if xopts.InputPath == "" {
		xopts.InputPath = optsDefault.InputPath
	}
	if xopts.OutputPath == "" {
		xopts.OutputPath = optsDefault.OutputPath
	}
	if xopts.Level == nil {
		xopts.Level = Level(DefaultLevel)
	}
	if xopts.SampleRate == 0 {
		xopts.SampleRate = optsDefault.SampleRate
	}
	if xopts.Channels == 0 {
		xopts.Channels = optsDefault.Channels
	}
	if xopts.ResponseFormat == "" {
		xopts.ResponseFormat = optsDefault.ResponseFormat
	}
	return xopts
}

// writeTrace stores a raw response body in dir. Failures are only logged.
func writeTrace(log *zerolog.Logger, dir string, body []byte) {
	if dir == "" {
		return
	}
	filename := filepath.Join(dir, fmt.Sprintf("response-%s.bin", uuid.New()))
	if err := os.WriteFile(filename, body, 0o644); err != nil {
		log.Error().Err(err).Str("file", filename).Msg("trace, writing response")
		return
	}
	log.Info().Str("file", filename).Msg("trace")
}

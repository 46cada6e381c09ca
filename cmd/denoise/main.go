// Command denoise uploads an audio file to the noise reduction service and
// writes the denoised audio as a WAV file.
//
// Examples:
//
//	# Denoise audio.wav into denoised_speech.wav, key from the environment.
//	DENOISE_API_KEY=... denoise
//
//	# Denoise a given file with a stronger level, writing 16kHz output.
//	denoise -key ... -level 40 -rate 16000 speech.wav clean.wav
//
//	# Record 5 seconds from the microphone into audio.wav, then denoise it.
//	denoise -record 5s
//
//	# List audio devices, to be used with the -device flag.
//	denoise -listdevices
//
// Settings can also be read from a YAML file with -config, and from
// environment variables (a .env file is loaded if present). Flags take
// precedence over both.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	denoise "github.com/noisereduction/denoise-go"
	"github.com/noisereduction/denoise-go/audio"
	"github.com/noisereduction/denoise-go/audio/audiocmd"
	"github.com/noisereduction/denoise-go/config"
)

var (
	configPath     string
	apiKey         string
	level          int
	baseURL        string
	sampleRate     int
	channels       int
	responseFormat string
	timeout        time.Duration
	traceDir       string
	verbose        bool
	record         time.Duration
	recordProgram  string
	deviceID       string
	listDevices    bool
)

func init() {
	flag.StringVar(&configPath, "config", "", "if set, read settings from this YAML file")
	flag.StringVar(&apiKey, "key", "", "api key sent as x-rapidapi-key")
	flag.IntVar(&level, "level", denoise.DefaultLevel, "denoise level sent as denoise_control")
	flag.StringVar(&baseURL, "url", "", "URL of the denoise endpoint")
	flag.IntVar(&sampleRate, "rate", 44100, "sample rate written to the output file")
	flag.IntVar(&channels, "channels", 1, "channel count of the returned audio, 1 or 2")
	flag.StringVar(&responseFormat, "format", "raw", "response format: raw, wav or auto")
	flag.DurationVar(&timeout, "timeout", 5*time.Minute, "deadline for the request, 0 for none")
	flag.StringVar(&traceDir, "tracedir", "", "if set, store raw responses in the named directory")
	flag.BoolVar(&verbose, "verbose", false, "print more logging")
	flag.DurationVar(&record, "record", 0, "if set, record this long from the microphone into the input file first")
	flag.StringVar(&recordProgram, "recorder", "sox", "program used with -record: sox or arecord")
	flag.StringVar(&deviceID, "device", "", "if set, device ID is used for recording instead of the default microphone")
	flag.BoolVar(&listDevices, "listdevices", false, "if set, lists devices and exits")
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: denoise [flags] [input.wav [output.wav]]")
	flag.PrintDefaults()
	if s, err := config.Description(); err == nil {
		fmt.Fprintf(os.Stderr, "\n%s\n", s)
	}
	os.Exit(2)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	os.Exit(main0(flag.Args()))
}

func main0(args []string) int {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()

	if listDevices {
		devs, err := audiocmd.ListDevices()
		if err != nil {
			log.Error().Err(err).Msg("listing devices")
			return 1
		}
		for _, dev := range devs {
			fmt.Printf("%v: %v\n", dev.ID, dev.Name)
		}
		return 0
	}

	if len(args) > 2 {
		usage()
	}

	cfg, err := config.NewConfig(configPath)
	if err != nil {
		log.Error().Err(err).Msg("loading config")
		return 1
	}
	applyFlags(cfg, args)

	lvl, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Error().Err(err).Msg("parsing log level")
		return 1
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	log = log.Level(lvl)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return 2
	}
	format, err := denoise.ParseResponseFormat(cfg.Audio.ResponseFormat)
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return 2
	}

	// Handle signals, so a partial output file is cleaned up.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.WithContext(ctx)

	if record > 0 {
		if err := recordInput(ctx, cfg.Audio.Input, cfg.Audio.SampleRate); err != nil {
			log.Error().Err(err).Msg("recording")
			return 1
		}
	}

	if cfg.API.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.API.Timeout)
		defer cancel()
	}

	c, err := denoise.NewClient(cfg.API.Key)
	if err != nil {
		log.Error().Err(err).Msg("new client")
		return 1
	}
	c.URL = cfg.API.URL

	opts := &denoise.Opts{
		InputPath:      cfg.Audio.Input,
		OutputPath:     cfg.Audio.Output,
		Level:          denoise.Level(cfg.API.Level),
		SampleRate:     cfg.Audio.SampleRate,
		Channels:       cfg.Audio.Channels,
		ResponseFormat: format,
		TraceDir:       cfg.Audio.TraceDir,
	}
	out, err := denoise.Run(ctx, c, opts)
	if err != nil {
		log.Error().Err(err).Msg("denoise")
		return 1
	}
	fmt.Println(out)
	return 0
}

// applyFlags overrides the configuration with the flags set on the command
// line and the positional input and output paths.
func applyFlags(cfg *config.Config, args []string) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "key":
			cfg.API.Key = apiKey
		case "level":
			cfg.API.Level = level
		case "url":
			cfg.API.URL = baseURL
		case "timeout":
			cfg.API.Timeout = timeout
		case "rate":
			cfg.Audio.SampleRate = sampleRate
		case "channels":
			cfg.Audio.Channels = channels
		case "format":
			cfg.Audio.ResponseFormat = responseFormat
		case "tracedir":
			cfg.Audio.TraceDir = traceDir
		}
	})
	if len(args) > 0 {
		cfg.Audio.Input = args[0]
	}
	if len(args) > 1 {
		cfg.Audio.Output = args[1]
	}
}

// recordInput records from the microphone into a WAV file at path.
func recordInput(ctx context.Context, path string, rate int) (rerr error) {
	rec, err := audiocmd.NewRecorder(ctx, &audiocmd.RecorderOpts{
		SampleRate:    rate,
		RecordProgram: recordProgram,
		DeviceID:      deviceID,
	})
	if err != nil {
		return fmt.Errorf("new recorder: %w", err)
	}
	defer rec.Close()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating input file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("closing input file: %w", err)
		}
		if rerr != nil {
			os.Remove(path)
		}
	}()

	w := bufio.NewWriter(f)
	if err := audio.Record(ctx, rec, w, record, rate); err != nil {
		return err
	}
	return w.Flush()
}

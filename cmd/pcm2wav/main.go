// Command pcm2wav converts a raw response body, as stored by denoise
// -tracedir, into a WAV file. Use it to listen to a response at another
// sample rate than the one it was written with.
//
// Example:
//
//	pcm2wav -rate 16000 <response-0d8c7d0e.bin >out.wav
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	denoise "github.com/noisereduction/denoise-go"
)

var (
	sampleRate = flag.Int("rate", 44100, "sample rate to write")
	channels   = flag.Int("channels", 1, "number of interleaved channels, 1 or 2")
	format     = flag.String("format", "raw", "input format: raw, wav or auto")
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pcm2wav [-rate hz] [-channels n] [-format raw|wav|auto] <response.bin >out.wav")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 0 {
		usage()
	}
	os.Exit(main0(os.Stdin, os.Stdout))
}

func main0(r io.Reader, w io.Writer) int {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})

	f, err := denoise.ParseResponseFormat(*format)
	if err != nil {
		log.Error().Err(err).Msg("parsing format")
		return 2
	}
	buf, err := io.ReadAll(r)
	if err != nil {
		log.Error().Err(err).Msg("reading input")
		return 1
	}
	samples, err := denoise.DecodeResponse(buf, f, *channels)
	if err != nil {
		log.Error().Err(err).Msg("decoding")
		return 1
	}

	bw := bufio.NewWriter(w)
	if err := denoise.WriteWAV(bw, samples, *sampleRate, *channels); err != nil {
		log.Error().Err(err).Msg("writing wav")
		return 1
	}
	if err := bw.Flush(); err != nil {
		log.Error().Err(err).Msg("writing wav")
		return 1
	}
	return 0
}

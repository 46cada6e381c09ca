// Command denoisemock serves a local stand-in for the noise reduction
// service. It returns uploaded audio as raw 16-bit PCM without changing it,
// which is enough to try the denoise command without an account.
//
// Example:
//
//	denoisemock -addr localhost:8080 -key test &
//	denoise -url http://localhost:8080/denoise -key test audio.wav
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/noisereduction/denoise-go/mockapi"
)

var (
	addr   = flag.String("addr", "localhost:8080", "address to listen on")
	apiKey = flag.String("key", "test", "api key clients must send")
)

func main() {
	flag.Parse()

	l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
	gin.SetMode(gin.ReleaseMode)

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           mockapi.NewRouter(*apiKey, l),
		ReadHeaderTimeout: 10 * time.Second,
	}

	notify := make(chan error, 1)
	go func() {
		notify <- httpServer.ListenAndServe()
	}()
	l.Info().Str("addr", *addr).Msg("serving POST /denoise")

	// Waiting signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info().Str("signal", s.String()).Msg("shutting down")
	case err := <-notify:
		if !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("serving")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		l.Error().Err(err).Msg("shutdown")
	}
}

package main

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noisereduction/denoise-go/config"
)

func TestApplyFlags(t *testing.T) {
	cfg := &config.Config{
		API:   config.API{Key: "env-key", Level: 20, URL: "https://example.com/denoise", Timeout: time.Minute},
		Audio: config.Audio{Input: "audio.wav", Output: "denoised_speech.wav", SampleRate: 44100, Channels: 1},
	}

	require.NoError(t, flag.Set("level", "0"))
	require.NoError(t, flag.Set("rate", "16000"))
	applyFlags(cfg, []string{"in.wav", "out.wav"})

	assert.Equal(t, 0, cfg.API.Level)
	assert.Equal(t, 16000, cfg.Audio.SampleRate)
	assert.Equal(t, "env-key", cfg.API.Key, "unset flags keep the configured value")
	assert.Equal(t, "https://example.com/denoise", cfg.API.URL)
	assert.Equal(t, "in.wav", cfg.Audio.Input)
	assert.Equal(t, "out.wav", cfg.Audio.Output)

	applyFlags(cfg, []string{"other.wav"})
	assert.Equal(t, "other.wav", cfg.Audio.Input)
	assert.Equal(t, "out.wav", cfg.Audio.Output)
}

// Package config reads the settings for the denoise command from a YAML
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	denoise "github.com/noisereduction/denoise-go"
)

type (
	// Config -.
	Config struct {
		API   `yaml:"api"`
		Audio `yaml:"audio"`
		Log   `yaml:"logger"`
	}

	// API -.
	API struct {
		URL     string        `yaml:"url"     env:"DENOISE_URL"     env-default:"https://noise-reduction-service.p.rapidapi.com/denoise" env-description:"denoising endpoint"`
		Key     string        `yaml:"key"     env:"DENOISE_API_KEY" env-description:"x-rapidapi-key credential"`
		Level   int           `yaml:"level"   env:"DENOISE_LEVEL"   env-description:"denoise_control sent to the service, 20 when unset"`
		Timeout time.Duration `yaml:"timeout" env:"DENOISE_TIMEOUT" env-default:"5m"  env-description:"deadline for the whole request"`
	}

	// Audio -.
	Audio struct {
		Input          string `yaml:"input"           env:"DENOISE_INPUT"           env-default:"audio.wav"`
		Output         string `yaml:"output"          env:"DENOISE_OUTPUT"          env-default:"denoised_speech.wav"`
		SampleRate     int    `yaml:"sample_rate"     env:"DENOISE_SAMPLE_RATE"     env-default:"44100" env-description:"sample rate written to the output file"`
		Channels       int    `yaml:"channels"        env:"DENOISE_CHANNELS"        env-default:"1"`
		ResponseFormat string `yaml:"response_format" env:"DENOISE_RESPONSE_FORMAT" env-default:"raw"   env-description:"raw, wav or auto"`
		TraceDir       string `yaml:"trace_dir"       env:"DENOISE_TRACE_DIR"       env-description:"if set, raw responses are stored here"`
	}

	// Log -.
	Log struct {
		Level string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	}
)

// NewConfig returns the configuration read from the YAML file at path, with
// environment variables taking precedence. With an empty path only the
// environment is read. A .env file in the working directory is loaded into
// the environment first, without overriding variables already set.
func NewConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	// Level is preset, an env-default would also replace an explicit 0.
	cfg := &Config{API: API{Level: denoise.DefaultLevel}}
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	if c.API.Key == "" {
		return fmt.Errorf("missing api key, set DENOISE_API_KEY or use -key")
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", c.Audio.SampleRate)
	}
	if c.Audio.Channels != 1 && c.Audio.Channels != 2 {
		return fmt.Errorf("invalid channel count %d, need 1 or 2", c.Audio.Channels)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("invalid timeout %v", c.API.Timeout)
	}
	return nil
}

// Description returns a listing of the environment variables read by
// NewConfig, for use in command usage.
func Description() (string, error) {
	header := "Environment variables:"
	return cleanenv.GetDescription(&Config{}, &header)
}

package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// AppConfig represents the optional application configuration file.
// Every field has a working default; the file only needs to name the
// values being overridden.
type AppConfig struct {
	Limits   Limits   `toml:"limits"`
	Timeouts Timeouts `toml:"timeouts"`
	Models   Models   `toml:"models"`
}

// Limits bounds the accepted upload sizes
type Limits struct {
	MaxImageSizeMB int64 `toml:"max_image_size_mb"`
	MaxAudioSizeMB int64 `toml:"max_audio_size_mb"`
}

// Timeouts bounds request processing per endpoint class
type Timeouts struct {
	DocumentSec    int `toml:"document_sec"`
	TextSec        int `toml:"text_sec"`
	AudioSec       int `toml:"audio_sec"`
	DiarizationSec int `toml:"diarization_sec"`
}

// Models names the provider models used for each processing path
type Models struct {
	GeminiPro       string `toml:"gemini_pro"`
	GeminiFlash     string `toml:"gemini_flash"`
	Whisper         string `toml:"whisper"`
	WhisperLanguage string `toml:"whisper_language"`
}

// DefaultAppConfig returns the configuration used when no file is given
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Limits: Limits{
			MaxImageSizeMB: 10,
			MaxAudioSizeMB: 100,
		},
		Timeouts: Timeouts{
			DocumentSec:    60,
			TextSec:        60,
			AudioSec:       120,
			DiarizationSec: 180,
		},
		Models: Models{
			GeminiPro:       "gemini-2.5-pro",
			GeminiFlash:     "gemini-1.5-flash",
			Whisper:         "whisper-1",
			WhisperLanguage: "tl",
		},
	}
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if a.Limits.MaxImageSizeMB <= 0 {
		return goerr.New("max_image_size_mb must be positive", goerr.V("value", a.Limits.MaxImageSizeMB))
	}
	if a.Limits.MaxAudioSizeMB <= 0 {
		return goerr.New("max_audio_size_mb must be positive", goerr.V("value", a.Limits.MaxAudioSizeMB))
	}
	for name, v := range map[string]int{
		"document_sec":    a.Timeouts.DocumentSec,
		"text_sec":        a.Timeouts.TextSec,
		"audio_sec":       a.Timeouts.AudioSec,
		"diarization_sec": a.Timeouts.DiarizationSec,
	} {
		if v <= 0 {
			return goerr.New("timeout must be positive", goerr.V("timeout", name), goerr.V("value", v))
		}
	}
	if a.Models.GeminiPro == "" || a.Models.GeminiFlash == "" || a.Models.Whisper == "" {
		return goerr.New("model names must not be empty")
	}
	return nil
}

// MaxImageSize returns the image upload limit in bytes
func (a *AppConfig) MaxImageSize() int64 {
	return a.Limits.MaxImageSizeMB * 1024 * 1024
}

// MaxAudioSize returns the audio upload limit in bytes
func (a *AppConfig) MaxAudioSize() int64 {
	return a.Limits.MaxAudioSizeMB * 1024 * 1024
}

// DocumentTimeout returns the document endpoint timeout
func (a *AppConfig) DocumentTimeout() time.Duration {
	return time.Duration(a.Timeouts.DocumentSec) * time.Second
}

// TextTimeout returns the text endpoint timeout
func (a *AppConfig) TextTimeout() time.Duration {
	return time.Duration(a.Timeouts.TextSec) * time.Second
}

// AudioTimeout returns the transcription endpoint timeout
func (a *AppConfig) AudioTimeout() time.Duration {
	return time.Duration(a.Timeouts.AudioSec) * time.Second
}

// DiarizationTimeout returns the diarization endpoint timeout
func (a *AppConfig) DiarizationTimeout() time.Duration {
	return time.Duration(a.Timeouts.DiarizationSec) * time.Second
}

// LoadAppConfiguration loads the application configuration from a TOML
// file, applying defaults for any omitted values
func LoadAppConfiguration(path string) (*AppConfig, error) {
	config := DefaultAppConfig()
	if path == "" {
		return config, nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V("path", path))
	}

	return config, nil
}

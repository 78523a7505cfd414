package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/ccops-lab/caseflow/pkg/service/whisper"
)

// OpenAI holds configuration for the Whisper transcription service
type OpenAI struct {
	apiKey string
}

// Flags returns CLI flags for OpenAI configuration
func (o *OpenAI) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key for Whisper transcription",
			Sources:     cli.EnvVars("CASEFLOW_OPENAI_API_KEY"),
			Destination: &o.apiKey,
		},
	}
}

// LogAttrs returns log attributes for the OpenAI configuration
func (o *OpenAI) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.Bool("api_key_set", o.apiKey != ""),
	}
}

// Configure creates the Whisper service from the configured flags.
// Returns nil if no API key is configured (Whisper endpoint disabled).
func (o *OpenAI) Configure(models Models) (whisper.Service, error) {
	if o.apiKey == "" {
		return nil, nil
	}

	svc, err := whisper.New(o.apiKey,
		whisper.WithModel(models.Whisper),
		whisper.WithLanguage(models.WhisperLanguage),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Whisper service")
	}

	return svc, nil
}

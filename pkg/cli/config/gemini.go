package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	llmgemini "github.com/m-mizutani/gollem/llm/gemini"
	"github.com/urfave/cli/v3"

	"github.com/ccops-lab/caseflow/pkg/service/gemini"
)

// Gemini holds configuration for the Gemini clients. The insight chains
// run through Vertex AI (project/location), the media endpoints through
// the Gemini API (API key).
type Gemini struct {
	apiKey    string
	projectID string
	location  string
}

// Flags returns CLI flags for Gemini configuration
func (g *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-api-key",
			Usage:       "Gemini API key for audio and document processing",
			Sources:     cli.EnvVars("CASEFLOW_GEMINI_API_KEY"),
			Destination: &g.apiKey,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for text insight chains via Vertex AI",
			Sources:     cli.EnvVars("CASEFLOW_GEMINI_PROJECT"),
			Destination: &g.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Vertex AI",
			Value:       "us-central1",
			Sources:     cli.EnvVars("CASEFLOW_GEMINI_LOCATION"),
			Destination: &g.location,
		},
	}
}

// LogAttrs returns log attributes for the Gemini configuration
func (g *Gemini) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.Bool("api_key_set", g.apiKey != ""),
		slog.String("project_id", g.projectID),
		slog.String("location", g.location),
	}
}

// ConfigureLLM creates the gollem LLM client used by the insight chains.
// Returns nil if projectID is not configured (text insights disabled).
func (g *Gemini) ConfigureLLM(ctx context.Context) (gollem.LLMClient, error) {
	if g.projectID == "" {
		return nil, nil
	}

	client, err := llmgemini.New(ctx, g.projectID, g.location)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini LLM client")
	}

	return client, nil
}

// ConfigureService creates the Gemini media service used by the audio
// and document endpoints. Returns nil if no API key is configured.
func (g *Gemini) ConfigureService(ctx context.Context, models Models) (gemini.Service, error) {
	if g.apiKey == "" {
		return nil, nil
	}

	svc, err := gemini.New(ctx, g.apiKey,
		gemini.WithProModel(models.GeminiPro),
		gemini.WithFlashModel(models.GeminiFlash),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini service")
	}

	return svc, nil
}

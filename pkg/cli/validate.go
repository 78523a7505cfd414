package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/ccops-lab/caseflow/pkg/cli/config"
	"github.com/ccops-lab/caseflow/pkg/utils/logging"
)

func cmdValidate() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the configuration file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "Path to TOML configuration file for limits, timeouts and models",
				Sources:     cli.EnvVars("CASEFLOW_CONFIG"),
				Destination: &configPath,
				Required:    true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			appCfg, err := config.LoadAppConfiguration(configPath)
			if err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}

			logger.Info("Configuration validation passed",
				"max_image_size_mb", appCfg.Limits.MaxImageSizeMB,
				"max_audio_size_mb", appCfg.Limits.MaxAudioSizeMB,
				"gemini_pro", appCfg.Models.GeminiPro,
				"gemini_flash", appCfg.Models.GeminiFlash,
				"whisper", appCfg.Models.Whisper,
			)
			return nil
		},
	}
}

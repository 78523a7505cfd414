package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/ccops-lab/caseflow/pkg/cli/config"
	httpctrl "github.com/ccops-lab/caseflow/pkg/controller/http"
	"github.com/ccops-lab/caseflow/pkg/usecase"
	"github.com/ccops-lab/caseflow/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var configPath string
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var openaiCfg config.OpenAI

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8000",
			Sources:     cli.EnvVars("CASEFLOW_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to TOML configuration file for limits, timeouts and models",
			Sources:     cli.EnvVars("CASEFLOW_CONFIG"),
			Destination: &configPath,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, openaiCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			appCfg, err := config.LoadAppConfiguration(configPath)
			if err != nil {
				return goerr.Wrap(err, "failed to load app configuration")
			}

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			ucOpts := []usecase.Option{}

			llmClient, err := geminiCfg.ConfigureLLM(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini LLM client")
			}
			if llmClient != nil {
				ucOpts = append(ucOpts, usecase.WithLLMClient(llmClient))
				logging.Default().Info("Text insight chains enabled")
			} else {
				logging.Default().Warn("Gemini project not configured, text insights disabled")
			}

			geminiSvc, err := geminiCfg.ConfigureService(ctx, appCfg.Models)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini service")
			}
			if geminiSvc != nil {
				ucOpts = append(ucOpts, usecase.WithGemini(geminiSvc))
				logging.Default().Info("Gemini audio and document processing enabled")
			} else {
				logging.Default().Warn("Gemini API key not configured, audio and document endpoints disabled")
			}

			whisperSvc, err := openaiCfg.Configure(appCfg.Models)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Whisper service")
			}
			if whisperSvc != nil {
				ucOpts = append(ucOpts, usecase.WithWhisper(whisperSvc))
				logging.Default().Info("Whisper transcription enabled")
			} else {
				logging.Default().Warn("OpenAI API key not configured, Whisper endpoint disabled")
			}

			uc := usecase.New(repo, ucOpts...)

			handler := httpctrl.New(uc,
				httpctrl.WithMaxImageSize(appCfg.MaxImageSize()),
				httpctrl.WithMaxAudioSize(appCfg.MaxAudioSize()),
				httpctrl.WithDocumentTimeout(appCfg.DocumentTimeout()),
				httpctrl.WithTextTimeout(appCfg.TextTimeout()),
				httpctrl.WithAudioTimeout(appCfg.AudioTimeout()),
				httpctrl.WithDiarizeTimeout(appCfg.DiarizationTimeout()),
			)

			server := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}

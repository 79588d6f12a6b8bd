package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/pulseboard/pkg/cli/config"
	httpctrl "github.com/secmon-lab/pulseboard/pkg/controller/http"
	"github.com/secmon-lab/pulseboard/pkg/service/hub"
	"github.com/secmon-lab/pulseboard/pkg/usecase"
	"github.com/secmon-lab/pulseboard/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var repoCfg config.Repository
	var githubCfg config.GitHub
	var geminiCfg config.Gemini
	var boardCfg config.Board

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("PULSEBOARD_ADDR"),
			Destination: &addr,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, boardCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
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

			// Preload settings from the board seed file when configured
			if err := boardCfg.Apply(ctx, repo); err != nil {
				return goerr.Wrap(err, "failed to apply board seed")
			}

			h := hub.New()

			ucOpts := []usecase.Option{
				usecase.WithPublisher(h),
			}

			githubSvc, err := githubCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize GitHub service")
			}
			ucOpts = append(ucOpts, usecase.WithGitHub(githubSvc))
			logging.Default().LogAttrs(ctx, slog.LevelInfo, "GitHub service configured", githubCfg.LogAttrs()...)
			if githubCfg.IsAppConfigured() {
				logging.Default().Info("GitHub App auth enabled")
			}

			// Initialize Gemini client if configured
			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Gemini client")
			}
			if llmClient != nil {
				ucOpts = append(ucOpts, usecase.WithLLM(llmClient))
				logging.Default().LogAttrs(ctx, slog.LevelInfo, "Narrative summary enabled", geminiCfg.LogAttrs()...)
			} else {
				logging.Default().Info("Gemini project not configured, summaries degrade to fallback text")
			}

			uc := usecase.New(repo, ucOpts...)

			handler := httpctrl.New(uc, httpctrl.WithHub(h))
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

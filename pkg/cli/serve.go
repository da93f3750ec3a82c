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
	"golang.org/x/sync/errgroup"

	"github.com/grc-lab/periksa/pkg/cli/config"
	httpctrl "github.com/grc-lab/periksa/pkg/controller/http"
	"github.com/grc-lab/periksa/pkg/domain/types"
	"github.com/grc-lab/periksa/pkg/service/narrative"
	"github.com/grc-lab/periksa/pkg/usecase"
	"github.com/grc-lab/periksa/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var noAuthUID string
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("PERIKSA_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and run as the specified user ID with admin capabilities (development only). Example: --no-auth=dev-user",
			Category:    "Authentication",
			Sources:     cli.EnvVars("PERIKSA_NO_AUTH"),
			Destination: &noAuthUID,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := appCfg.Load(); err != nil {
				return goerr.Wrap(err, "failed to load application config")
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

			// Store the configured question sets as the active ones
			for _, set := range appCfg.ToQuestionSets() {
				if err := repo.Question().PutActive(ctx, set); err != nil {
					return goerr.Wrap(err, "failed to store question set", goerr.V("type", set.Type))
				}
				logging.Default().Info("Question set loaded",
					"type", set.Type,
					"questions", len(set.Questions),
				)
			}

			ucOpts := []usecase.Option{
				usecase.WithEngineConfig(appCfg.ToEngineConfig()),
			}

			// Initialize narrative drafting when the LLM is configured
			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}
			if llmClient != nil {
				ucOpts = append(ucOpts, usecase.WithNarrative(narrative.New(llmClient)))
				logging.Default().Info("Narrative drafting enabled")
			} else {
				logging.Default().Info("Gemini not configured, narrative drafting disabled")
			}

			uc := usecase.New(repo, ucOpts...)

			var srvOpts []httpctrl.Options
			if noAuthUID != "" {
				srvOpts = append(srvOpts, httpctrl.WithNoAuthUID(types.UserID(noAuthUID)))
				logging.Default().Warn("Running in no-auth mode (development only)", "user_id", noAuthUID)
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, srvOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Graceful shutdown on SIGINT/SIGTERM
			sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, gctx := errgroup.WithContext(sigCtx)

			g.Go(func() error {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					return goerr.Wrap(err, "failed to start server")
				}
				return nil
			})

			g.Go(func() error {
				<-gctx.Done()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}
				return nil
			})

			if err := g.Wait(); err != nil {
				return err
			}

			logging.Default().Info("Server shutdown completed")
			return nil
		},
	}
}

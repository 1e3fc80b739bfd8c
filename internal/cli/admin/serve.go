package admin

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexwatch/lexwatch/internal/api/handlers"
	"github.com/lexwatch/lexwatch/internal/config"
	"github.com/lexwatch/lexwatch/internal/corpus"
	"github.com/lexwatch/lexwatch/internal/htmltext"
	"github.com/lexwatch/lexwatch/internal/llm"
	"github.com/lexwatch/lexwatch/internal/retrieval"
	"github.com/lexwatch/lexwatch/internal/server"
	"github.com/lexwatch/lexwatch/internal/service"
	"github.com/lexwatch/lexwatch/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the lexwatch API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	svc, err := buildAskService(cfg)
	if err != nil {
		return err
	}

	askHandler := handlers.NewAskHandler(svc, cfg.DefaultTopK)
	router := server.NewRouter(server.RouterConfig{AskHandler: askHandler})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// buildAskService wires the pipeline from configuration. The completion
// client stays nil without an API key; retrieval still works and every
// answer is null.
func buildAskService(cfg *config.Config) (*service.AskService, error) {
	loader := corpus.NewLoader(cfg.CorpusBaseURL, nil)

	fetcher := htmltext.NewFetcher(nil, cfg.RemoteFetchTimeout, cfg.PageFetchMaxChars)
	enricher := retrieval.NewEnricher(fetcher, cfg.RemoteConcurrency)

	var completion service.CompletionClient
	if cfg.HasOpenAI() {
		completion = llm.NewClientWithConfig(llm.Config{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
		})
		log.Printf("completion provider enabled (model %s)", cfg.OpenAIModel)
	} else {
		log.Println("no OpenAI API key set, serving retrieval-only answers")
	}

	svcCfg := service.AskServiceConfig{
		DefaultTopK: cfg.DefaultTopK,
		Limits: retrieval.AssemblyLimits{
			SummaryMaxChars:       cfg.SummaryMaxChars,
			RemoteExtractMaxChars: cfg.RemoteExtractMaxChars,
			AttachmentMaxChars:    cfg.AttachmentMaxChars,
			MaxAttachments:        cfg.MaxAttachments,
		},
	}

	return service.NewAskServiceWithConfig(loader, enricher, completion, svcCfg), nil
}

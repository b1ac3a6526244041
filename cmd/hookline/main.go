package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	hlhttp "github.com/hookline/hookline/internal/adapter/http"
	"github.com/hookline/hookline/internal/adapter/linear"
	"github.com/hookline/hookline/internal/adapter/openai"
	hlotel "github.com/hookline/hookline/internal/adapter/otel"
	"github.com/hookline/hookline/internal/adapter/ristretto"
	"github.com/hookline/hookline/internal/config"
	"github.com/hookline/hookline/internal/logger"
	"github.com/hookline/hookline/internal/middleware"
	"github.com/hookline/hookline/internal/resilience"
	"github.com/hookline/hookline/internal/service"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "teams", "issues", "comment":
			if err := runCLI(os.Args[1], os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "hookline %s: %v\n", os.Args[1], err)
				os.Exit(1)
			}
			return
		case "serve":
			// fall through to the server
		default:
			printUsage()
			os.Exit(2)
		}
	}

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: hookline [command]

Commands:
  serve     Run the webhook server (default)
  teams     List the workspace's teams
  issues    List issues for one or more teams
  comment   Post a comment on an issue, optionally AI-generated
`)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	slog.SetDefault(logger.New(cfg.Logging))

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"webhook_path", cfg.Webhook.Path,
		"log_level", cfg.Logging.Level,
	)
	if cfg.Tracker.AccessToken == "" {
		slog.Warn("no tracker access token configured; API calls will fail until one is obtained via /oauth/callback")
	}

	ctx := context.Background()

	// --- Telemetry ---
	shutdownTelemetry, err := hlotel.Init(ctx, cfg.Logging.Service, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(shutdownCtx)
	}()

	// --- Infrastructure ---
	issueCache, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer issueCache.Close()

	// --- Clients ---
	trackerClient := linear.NewClient(cfg.Tracker.APIURL, cfg.Tracker.AccessToken)
	trackerClient.SetBreaker(resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))

	var completionClient *openai.Client
	if cfg.Completion.APIKey != "" {
		completionClient = openai.NewClient(cfg.Completion.APIURL, cfg.Completion.APIKey, cfg.Completion.Model)
		completionClient.SetBreaker(resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))
	} else {
		slog.Warn("no completion API key configured; AI responses disabled")
	}

	// --- Services ---
	agentSvc := newAgentService(trackerClient, completionClient, issueCache, cfg.Cache.IssueTTL)

	metrics, err := hlotel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	agentSvc.SetMetrics(metrics)

	// --- HTTP ---
	handlers := &hlhttp.Handlers{
		Agent: agentSvc,
		OAuth: linear.OAuthConfig{
			TokenURL:     cfg.Tracker.OAuthURL,
			ClientID:     cfg.Tracker.ClientID,
			ClientSecret: cfg.Tracker.ClientSecret,
		},
		OnToken: trackerClient.SetAccessToken,
	}

	r := chi.NewRouter()

	r.Use(hlotel.HTTPMiddleware(cfg.Logging.Service))
	r.Use(middleware.DeliveryID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	hlhttp.MountRoutes(r, handlers, cfg.Webhook)

	addr := ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr, "webhook_path", cfg.Webhook.Path)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// newAgentService builds the agent service without a typed-nil completer
// when completions are disabled.
func newAgentService(trk *linear.Client, comp *openai.Client, c *ristretto.Cache, ttl time.Duration) *service.AgentService {
	if comp == nil {
		return service.NewAgentService(trk, nil, c, ttl)
	}
	return service.NewAgentService(trk, comp, c, ttl)
}

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

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/obsd/support-relay/common/id"
	"github.com/obsd/support-relay/common/logger"
	"github.com/obsd/support-relay/common/otel"
	"github.com/obsd/support-relay/core/config"
	"github.com/obsd/support-relay/internal/http/middleware"
	httprouter "github.com/obsd/support-relay/internal/http/router"
	"github.com/obsd/support-relay/internal/metrics"
	"github.com/obsd/support-relay/internal/service"
	"github.com/obsd/support-relay/internal/service/chat"
	"github.com/obsd/support-relay/internal/service/issue_tracker"
	"github.com/obsd/support-relay/internal/service/paging"
	"github.com/obsd/support-relay/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "support relay starting",
		"env", cfg.Env,
		"service", cfg.OTel.ServiceName,
		"dedup_backend", cfg.Dedup.Backend,
		"verify_signatures", cfg.Slack.VerifiesSignatures(),
		"late_hours", fmt.Sprintf("%02d-%02d %s", cfg.Support.LateHours.Start, cfg.Support.LateHours.End, cfg.Support.LateHours.Location))
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	dedup, err := store.NewDedupStore(ctx, cfg.Dedup)
	if err != nil {
		slog.ErrorContext(ctx, "failed to initialize dedup store", "error", err)
		os.Exit(1)
	}
	defer dedup.Close()

	m := metrics.New()

	mainChat := chat.NewSlackChatService(cfg.Slack.BotToken, cfg.Slack.APIURL)
	var supportChat chat.ChatService
	if cfg.Slack.SupportBotToken != "" {
		supportChat = chat.NewSlackChatService(cfg.Slack.SupportToken(), cfg.Slack.APIURL)
	}

	services := service.NewServices(service.ServicesConfig{
		Config:       cfg,
		Dedup:        dedup,
		Chat:         mainChat,
		SupportChat:  supportChat,
		IssueTracker: issue_tracker.NewLinearIssueTrackerService(cfg.Linear.APIURL, cfg.Linear.AuthHeader, nil),
		Paging:       paging.NewPagerDutyService(cfg.PagerDuty.APIKey, cfg.PagerDuty.APIURL),
		Metrics:      m,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services, m)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.DrainTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	// runs submitted before the listener closed still post their notifications
	if err := services.Pipeline().Wait(shutdownCtx); err != nil {
		slog.WarnContext(shutdownCtx, "pipeline drain incomplete", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services, m *metrics.Metrics) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		Version:       cfg.OTel.ServiceVersion,
		SigningSecret: cfg.Slack.SigningSecret,
		Metrics:       m,
	})

	return router
}

const banner = `
support-relay :: slack support intake
`

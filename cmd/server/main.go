package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	analyticsbiz "github.com/leadpilot/leadpilot-backend/internal/analytics/biz"
	analyticsdata "github.com/leadpilot/leadpilot-backend/internal/analytics/data"
	analyticsservice "github.com/leadpilot/leadpilot-backend/internal/analytics/service"
	"github.com/leadpilot/leadpilot-backend/internal/auth"
	authbiz "github.com/leadpilot/leadpilot-backend/internal/auth/biz"
	authdata "github.com/leadpilot/leadpilot-backend/internal/auth/data"
	"github.com/leadpilot/leadpilot-backend/internal/auth/middleware"
	authservice "github.com/leadpilot/leadpilot-backend/internal/auth/service"
	"github.com/leadpilot/leadpilot-backend/internal/conf"
	"github.com/leadpilot/leadpilot-backend/internal/data"
	historybiz "github.com/leadpilot/leadpilot-backend/internal/history/biz"
	historydata "github.com/leadpilot/leadpilot-backend/internal/history/data"
	historyservice "github.com/leadpilot/leadpilot-backend/internal/history/service"
	leadbiz "github.com/leadpilot/leadpilot-backend/internal/lead/biz"
	leaddata "github.com/leadpilot/leadpilot-backend/internal/lead/data"
	leadservice "github.com/leadpilot/leadpilot-backend/internal/lead/service"
	leadgenbiz "github.com/leadpilot/leadpilot-backend/internal/leadgen/biz"
	"github.com/leadpilot/leadpilot-backend/internal/leadgen/fallback"
	"github.com/leadpilot/leadpilot-backend/internal/leadgen/fetcher"
	"github.com/leadpilot/leadpilot-backend/internal/leadgen/planner"
	leadgenservice "github.com/leadpilot/leadpilot-backend/internal/leadgen/service"
	"github.com/leadpilot/leadpilot-backend/internal/pkg/logger"
	"github.com/leadpilot/leadpilot-backend/internal/pkg/mailer"
	"github.com/leadpilot/leadpilot-backend/internal/places/provider"
	placestypes "github.com/leadpilot/leadpilot-backend/internal/places/types"
	"github.com/leadpilot/leadpilot-backend/internal/server"
	templatebiz "github.com/leadpilot/leadpilot-backend/internal/template/biz"
	templatedata "github.com/leadpilot/leadpilot-backend/internal/template/data"
	templateservice "github.com/leadpilot/leadpilot-backend/internal/template/service"
	userbiz "github.com/leadpilot/leadpilot-backend/internal/user/biz"
	userdata "github.com/leadpilot/leadpilot-backend/internal/user/data"
	userservice "github.com/leadpilot/leadpilot-backend/internal/user/service"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := conf.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.InitGlobal(&logger.Config{
		Level:            cfg.Log.Level,
		Format:           cfg.Log.Format,
		Output:           cfg.Log.Output,
		EnableCaller:     cfg.Log.EnableCaller,
		EnableStacktrace: cfg.Log.EnableStacktrace,
		File: logger.FileConfig{
			Filename:   cfg.Log.File.Filename,
			MaxSize:    cfg.Log.File.MaxSize,
			MaxAge:     cfg.Log.File.MaxAge,
			MaxBackups: cfg.Log.File.MaxBackups,
			Compress:   cfg.Log.File.Compress,
		},
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.L()
	defer func() { _ = log.Sync() }()

	log.Info("starting leadpilot backend")

	// Data layer
	dataLayer, cleanup, err := data.NewData(cfg, log.Logger)
	if err != nil {
		log.Fatal("failed to initialize data layer", zap.Error(err))
	}
	defer cleanup()

	// Place-search provider
	placeProvider, err := provider.NewGoogleProvider(&placestypes.ProviderConfig{
		Name:           "google",
		APIHost:        cfg.Places.APIHost,
		GeocodeAPIHost: cfg.Places.GeocodeAPIHost,
		APIKey:         cfg.Places.APIKey,
		Timeout:        int(cfg.Places.Timeout.Seconds()),
		MaxRetries:     cfg.Places.MaxRetries,
	})
	if err != nil {
		log.Fatal("failed to initialize place provider", zap.Error(err))
	}
	if !placeProvider.IsConfigured() {
		log.Warn("place provider is not configured, searches will run in simulation mode")
	}

	// Mailer
	smtpMailer, err := mailer.New(&cfg.SMTP, log.Logger)
	if err != nil {
		log.Fatal("failed to initialize mailer", zap.Error(err))
	}

	// JWT
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	// Repositories
	userRepo := userdata.NewUserRepo(dataLayer.DB)
	authRepo := authdata.NewAuthRepo(dataLayer.DB)
	leadRepo := leaddata.NewLeadRepo(dataLayer.DB)
	historyRepo := historydata.NewHistoryRepo(dataLayer.DB)
	templateRepo := templatedata.NewTemplateRepo(dataLayer.DB)
	analyticsRepo := analyticsdata.NewAnalyticsRepo(dataLayer.DB)

	// Use cases
	userUC := userbiz.NewUserUseCase(userRepo)
	authUC := authbiz.NewAuthUseCase(authRepo, jwtManager, log.Logger)
	leadUC := leadbiz.NewLeadUseCase(leadRepo, userUC, log.Logger)
	historyUC := historybiz.NewHistoryUseCase(historyRepo, log.Logger)
	analyticsUC := analyticsbiz.NewAnalyticsUseCase(analyticsRepo, log.Logger)
	templateUC := templatebiz.NewTemplateUseCase(templateRepo, userUC, leadUC, smtpMailer, log.Logger)

	searchPlanner := planner.New(placeProvider, log.Logger)
	searchFetcher := fetcher.New(placeProvider, cfg.Leadgen.QueryDelay, cfg.Leadgen.MaxResults, log.Logger)
	generator := fallback.New(cfg.Leadgen.SimulatedLatency)
	searchUC := leadgenbiz.NewLeadSearchUseCase(placeProvider, searchPlanner, searchFetcher, generator, log.Logger)

	// Services
	services := &server.Services{
		Auth: authservice.NewAuthService(authUC, log.Logger,
			middleware.LoginRateLimiter(dataLayer.Redis, log.Logger),
			middleware.RegisterRateLimiter(dataLayer.Redis, log.Logger)),
		User:      userservice.NewUserService(userUC, log.Logger),
		Leadgen:   leadgenservice.NewLeadgenService(searchUC, userUC, historyUC, analyticsUC, log.Logger),
		Lead:      leadservice.NewLeadService(leadUC, analyticsUC, log.Logger),
		History:   historyservice.NewHistoryService(historyUC, log.Logger),
		Template:  templateservice.NewTemplateService(templateUC, analyticsUC, log.Logger),
		Analytics: analyticsservice.NewAnalyticsService(analyticsUC, log.Logger),
	}

	httpServer := server.NewHTTPServer(cfg, log, jwtManager, dataLayer.Redis, services)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server stopped unexpectedly", zap.Error(err))
		}
	case sig := <-quit:
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}

	log.Info("server exited")
}

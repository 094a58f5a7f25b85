package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	grpclib "google.golang.org/grpc"

	"github.com/simaogato/wealthdash-backend/internal/adapter/coingecko"
	"github.com/simaogato/wealthdash-backend/internal/adapter/ecb"
	grpcadapter "github.com/simaogato/wealthdash-backend/internal/adapter/grpc"
	httpadapter "github.com/simaogato/wealthdash-backend/internal/adapter/http"
	"github.com/simaogato/wealthdash-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/wealthdash-backend/internal/config"
	"github.com/simaogato/wealthdash-backend/internal/jobs"
	"github.com/simaogato/wealthdash-backend/internal/usecase/dashboard"
	"github.com/simaogato/wealthdash-backend/internal/usecase/quotes"
	"github.com/simaogato/wealthdash-backend/internal/usecase/rates"
	"github.com/simaogato/wealthdash-backend/internal/usecase/snapshot"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)

	// 1. Setup Database
	// Add 2-second delay to ensure Postgres is up (Simple retry)
	time.Sleep(2 * time.Second)

	db, err := postgres.NewDB(cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// 2. Initialize Repositories (Postgres)
	recordRepo := postgres.NewRecordRepository(db)
	entityRepo := postgres.NewEntityRepository(db)
	snapshotRepo := postgres.NewSnapshotRepository(db)

	// 3. Initialize Services (Use Cases)
	rateService := rates.NewRateService(ecb.NewClient(cfg.RatesURL, logger), cfg.RatesTTL, logger)
	recorder := snapshot.NewRecorder(snapshotRepo, cfg.Location)
	dashboardService := dashboard.NewDashboardService(recordRepo, entityRepo, rateService, nil, recorder, logger)
	if cfg.CoinGeckoURL != "" {
		dashboardService.Quotes = quotes.NewQuoteService(coingecko.NewClient(cfg.CoinGeckoURL, logger), logger)
	}

	// Warm the rate cache; failure only means fallback rates until the next refresh
	if err := rateService.Refresh(context.Background()); err != nil {
		logger.WithError(err).Warn("initial rate fetch failed")
	}

	// 4. Scheduled jobs
	var notifier jobs.Notifier
	if cfg.AlertsEnabled() {
		notifier = jobs.NewEmailNotifier(cfg.SMTPAddr, cfg.AlertFrom, cfg.AlertTo, logger)
	}
	scheduler := jobs.NewScheduler(rateService, dashboardService, cfg.SnapshotUsers, notifier, cfg.Location, logger)
	if err := scheduler.Register(cfg.SnapshotCron); err != nil {
		logger.Fatalf("Failed to schedule jobs: %v", err)
	}
	scheduler.Start()

	// 5. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(logger),
			grpcadapter.AuthInterceptor(cfg.APIToken),
		),
	)
	grpcadapter.RegisterNetWorthServiceServer(grpcServer, grpcadapter.NewServer(dashboardService))

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatalf("Failed to listen on %s: %v", cfg.GRPCAddr, err)
	}

	go func() {
		logger.Infof("gRPC server listening on %s", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Fatalf("Failed to serve gRPC server: %v", err)
		}
	}()

	// 6. Start HTTP Server
	handler := httpadapter.NewHandler(dashboardService, logger)
	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpadapter.NewRouter(handler, cfg.APIToken, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Infof("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown
	waitForShutdown(logger, grpcServer, httpServer, scheduler)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the servers
func waitForShutdown(logger *logrus.Logger, grpcServer *grpclib.Server, httpServer *http.Server, scheduler *jobs.Scheduler) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Infof("Received signal: %v. Shutting down gracefully...", sig)

	scheduler.Stop()
	logger.Info("Scheduler stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("HTTP server shutdown failed")
	}
	logger.Info("HTTP server stopped")

	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mheijden/portfolio-tracker/internal/api"
	"github.com/mheijden/portfolio-tracker/internal/config"
	"github.com/mheijden/portfolio-tracker/internal/database"
	"github.com/mheijden/portfolio-tracker/internal/marketdata"
	"github.com/mheijden/portfolio-tracker/internal/marketdata/eodhd"
	"github.com/mheijden/portfolio-tracker/internal/marketdata/yahoo"
	"github.com/mheijden/portfolio-tracker/internal/repository"
	"github.com/mheijden/portfolio-tracker/internal/scheduler"
	"github.com/mheijden/portfolio-tracker/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection (runs embedded migrations)
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	paymentRepo := repository.NewPaymentRepository(db)
	rateRepo := repository.NewRateRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	settingsRepo := repository.NewSettingsRepository(db, cfg.Security.FernetKey)

	// Market-data providers and the fallback dispatcher. The EODHD key may
	// come from the environment or from the encrypted settings store.
	eodhdKey := cfg.Providers.EODHDAPIKey
	if eodhdKey == "" {
		if stored, err := settingsRepo.Get("eodhd_api_key"); err == nil {
			eodhdKey = stored
		}
	}
	dispatcher := marketdata.NewDispatcher(
		cfg.Providers.Ordering,
		yahoo.New(),
		eodhd.New(eodhdKey),
	)

	// Create services
	systemService := service.NewSystemService(db, map[string]bool{
		"yahoo": true,
		"eodhd": eodhdKey != "",
	})
	dividendService := service.NewDividendService(paymentRepo, rateRepo, dispatcher)
	positionService := service.NewPositionService(positionRepo)
	reportService := service.NewReportService(rateRepo, positionRepo, dispatcher)
	validatorService := service.NewValidatorService(rateRepo, positionRepo)

	// Nightly rate recompute
	if cfg.Scheduler.Enabled {
		sched, err := scheduler.New(dividendService, cfg.Scheduler.RecomputeSchedule)
		if err != nil {
			log.Fatalf("Failed to create scheduler: %v", err)
		}
		sched.Start()
		defer sched.Stop()
		log.Printf("Scheduled rate recompute: %s", cfg.Scheduler.RecomputeSchedule)
	}

	// Create router
	router := api.NewRouter(api.Services{
		System:     systemService,
		Dividend:   dividendService,
		Position:   positionService,
		Report:     reportService,
		Validator:  validatorService,
		Settings:   settingsRepo,
		Dispatcher: dispatcher,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// Package api wires the chi router, handlers, and middleware together.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mheijden/portfolio-tracker/internal/api/handlers"
	custommiddleware "github.com/mheijden/portfolio-tracker/internal/api/middleware"
	"github.com/mheijden/portfolio-tracker/internal/config"
	"github.com/mheijden/portfolio-tracker/internal/marketdata"
	"github.com/mheijden/portfolio-tracker/internal/repository"
	"github.com/mheijden/portfolio-tracker/internal/service"
)

// Services bundles everything the router needs. Keeping it a struct avoids
// a constructor with ten positional arguments.
type Services struct {
	System    *service.SystemService
	Dividend  *service.DividendService
	Position  *service.PositionService
	Report    *service.ReportService
	Validator *service.ValidatorService

	Settings   *repository.SettingsRepository
	Dispatcher *marketdata.Dispatcher
}

// NewRouter creates and configures the HTTP router
func NewRouter(svcs Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svcs.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/payments", func(r chi.Router) {
			paymentHandler := handlers.NewPaymentHandler(svcs.Dividend)
			r.Get("/", paymentHandler.GetAllPayments)
			r.Post("/", paymentHandler.CreatePayment)
			r.Route("/{symbol}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateSymbolMiddleware)
				r.Get("/", paymentHandler.GetPaymentsBySymbol)
			})
		})

		r.Route("/rates", func(r chi.Router) {
			rateHandler := handlers.NewRateHandler(svcs.Dividend)
			r.Get("/", rateHandler.GetAllRates)
			r.Post("/recompute", rateHandler.RecomputeAll)
			r.Route("/{symbol}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateSymbolMiddleware)
				r.Get("/", rateHandler.GetRate)
				r.Post("/recompute", rateHandler.RecomputeSymbol)
				r.Get("/override", rateHandler.GetOverride)
				r.Put("/override", rateHandler.SetOverride)
				r.Delete("/override", rateHandler.ClearOverride)
			})
		})

		r.Route("/positions", func(r chi.Router) {
			positionHandler := handlers.NewPositionHandler(svcs.Position)
			r.Get("/", positionHandler.ListPositions)
			r.Post("/", positionHandler.UpsertPosition)
			r.Route("/{symbol}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateSymbolMiddleware)
				r.Get("/", positionHandler.GetPosition)
			})
		})

		r.Route("/reports", func(r chi.Router) {
			reportHandler := handlers.NewReportHandler(svcs.Report, svcs.Validator)
			r.Get("/yield", reportHandler.PortfolioYield)
			r.Get("/reconciliation", reportHandler.Reconciliation)
			r.Route("/yield/{symbol}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateSymbolMiddleware)
				r.Get("/", reportHandler.YieldReport)
			})
		})

		r.Route("/symbols", func(r chi.Router) {
			symbolHandler := handlers.NewSymbolHandler(svcs.Dispatcher)
			r.Route("/isin/{isin}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateISINMiddleware)
				r.Get("/", symbolHandler.LookupISIN)
			})
		})

		r.Route("/settings", func(r chi.Router) {
			settingsHandler := handlers.NewSettingsHandler(svcs.Settings)
			r.Get("/{key}", settingsHandler.GetSetting)
			r.Put("/{key}", settingsHandler.SetSetting)
		})
	})

	return r
}

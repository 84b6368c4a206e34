package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"takemeto75/booking"
	"takemeto75/config"
	"takemeto75/database"
	"takemeto75/handlers"
	"takemeto75/logger"
	"takemeto75/metrics"
	"takemeto75/planner"
	"takemeto75/selector"
	"takemeto75/services"
)

func main() {
	// Load .env file (ignored in production where env vars are set directly)
	envErr := godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		logger.NewLogger("info").Fatal("failed to load config", "error", err)
	}

	log := logger.NewLogger(cfg.Log.Level)
	defer func() { _ = log.Sync() }()
	if envErr != nil {
		log.Info("no .env file found, using environment variables")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics("takemeto75", prometheus.DefaultRegisterer)
	checks := map[string]handlers.HealthCheck{}

	// ── Stores ────────────────────────────────────────────────────────────
	var (
		bookings database.BookingStore = database.NewMemoryBookings()
		packages database.PackageStore = database.NewMemoryPackages()
	)
	if cfg.Database.Enabled() {
		db, err := database.Open(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal("failed to connect to database", "error", err)
		}
		defer db.Close()
		bookings = database.NewPostgresBookings(db)
		packages = database.NewPostgresPackages(db)
		checks["database"] = db.PingContext
	} else {
		log.Warn("no database configured, bookings are kept in memory")
	}
	if cfg.Redis.Addr != "" {
		rdb, err := database.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("failed to connect to redis", "error", err)
		}
		defer rdb.Close()
		packages = database.NewRedisPackages(rdb, cfg.Redis.PackageTTL)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// ── Providers ─────────────────────────────────────────────────────────
	duffel := services.NewDuffelClient(cfg.Duffel, log, m)
	stays := services.NewStaysClient(cfg.Duffel, log, m)
	amadeus := services.NewAmadeusClient(cfg.Amadeus, log, m)
	bookingCom := services.NewBookingClient(cfg.Booking, services.NewAffiliates(cfg.Booking, cfg.Awin), log, m)

	normalizer := services.NewNormalizer(cfg.Markup.FlightMarkups())
	flights := services.NewFlightFeed(normalizer, log, m, duffel, amadeus)
	hotels := services.NewHotelFeed(normalizer, log, m, bookingCom, stays, amadeus)
	weather := services.NewWeatherFeed(services.NewWeatherClient(cfg.Weather, log, m), log, m)

	advisor := services.NewAdvisor(cfg.Advisor, m)
	if advisor == nil {
		log.Warn("no advisor credential, packages use the deterministic scorer", "provider", cfg.Advisor.Provider)
	}
	sel := selector.NewAdvised(advisor, selector.NewDeterministic(), cfg.Advisor.Timeout, log, m)

	// ── Services ──────────────────────────────────────────────────────────
	plan := planner.New(weather, flights, hotels, sel, packages, planner.Options{
		Nights:            cfg.Trip.Nights,
		BatchSize:         cfg.Trip.BatchSize,
		DestinationsLimit: cfg.Trip.DestinationsLimit,
	}, log, m)
	bookingSvc := booking.NewService(bookings, packages, duffel, bookingCom, log, m)

	if cfg.HTTP.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	h := handlers.New(plan, bookingSvc, packages, checks, log)
	router := handlers.NewRouter(h, cfg.HTTP, log, m, prometheus.DefaultGatherer)

	server := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Past the request deadline so slow searches still get their reply.
		WriteTimeout: cfg.HTTP.RequestTimeout + 15*time.Second,
	}

	go func() {
		log.Info("TakeMeTo75 backend starting", "port", cfg.HTTP.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("received signal", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}
	cancel()

	log.Info("TakeMeTo75 backend stopped")
}

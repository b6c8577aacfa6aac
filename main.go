package main

import (
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"fieldlens/adapters/nominatim"
	"fieldlens/adapters/postgres"
	"fieldlens/app"
	"fieldlens/internal"
	"fieldlens/internal/analytics"
	"fieldlens/internal/config"
	"fieldlens/internal/geo"
	"fieldlens/internal/testkit"
	"fieldlens/ports"
	"fieldlens/ui"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()

	var source ports.ResponseSource
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()
		source = postgres.NewResponseRepository(db)
		logger.Info("using Postgres response source")
	} else {
		source = testkit.NewDemoSource(1, 120)
		logger.Warn("DATABASE_URL not set; serving the synthetic demo survey")
	}

	cache := geo.NewBoundedCache(cfg.Geocoder.CacheSize)
	provider := nominatim.New(cfg.Geocoder.BaseURL)
	geocoder := geo.NewBatchGeocoder(provider, cache, logger,
		geo.WithDelay(cfg.Geocoder.Delay),
		geo.WithTimeout(cfg.Geocoder.Timeout),
		geo.WithBatchCap(cfg.Geocoder.BatchCap),
		geo.WithLanguage(cfg.Geocoder.Language),
	)

	thresholds := analytics.Thresholds{
		ConcentrationPct:  cfg.Analytics.ConcentrationPct,
		BalancedSpreadPts: cfg.Analytics.BalancedSpreadPts,
		RatingPositivePct: cfg.Analytics.RatingPositivePct,
		RatingNeutralPct:  cfg.Analytics.RatingNeutralPct,
		TextVolumeMin:     cfg.Analytics.TextVolumeMin,
	}

	service := app.NewReportService(source, thresholds, geocoder, logger, cfg.Geocoder.TopZones)

	server := ui.NewServer(service, logger, cfg.Server.GinMode)
	if err := server.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

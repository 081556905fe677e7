package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/anomaly"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/config"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/dedup"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/engine"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/extract"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/geocode"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/lexicon"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/scoring"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/storage"
)

// getDatabase opens the configured SQLite store and runs migrations.
func getDatabase(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, func(), error) {
	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}
	return store, cleanup, nil
}

// buildEngine wires the engine from configuration.
func buildEngine(cfg *config.Config, store *storage.SQLiteStorage) (*engine.Engine, error) {
	lex := lexicon.Default()
	if cfg.Lexicon.Path != "" {
		loaded, err := lexicon.Load(cfg.Lexicon.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load lexicon: %w", err)
		}
		lex = loaded
	}

	var geocoder dedup.Geocoder = geocode.Disabled{}
	if cfg.Geocoder.Enabled {
		geocoder = geocode.NewNominatimClient(cfg.Geocoder.BaseURL)
	}

	dedupCfg := dedup.DefaultConfig()
	dedupCfg.RadiusKm = cfg.Dedup.RadiusKm
	dedupCfg.FullClusterMatch = cfg.Dedup.FullClusterMatch

	rates := anomaly.DefaultMarketRates()
	if cfg.Anomaly.RatesPath != "" {
		loaded, err := anomaly.LoadMarketRates(cfg.Anomaly.RatesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load market rates: %w", err)
		}
		rates = loaded
	}

	var extractor engine.Extractor = extract.Disabled{}
	if cfg.Extractor.APIKey != "" {
		client, err := extract.NewAnthropicExtractor(cfg.Extractor.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to build extractor: %w", err)
		}
		extractor = client
	}

	return engine.NewWithConfig(
		store,
		store,
		lexicon.NewMatcher(lex),
		dedup.NewWithConfig(store, geocoder, dedupCfg),
		scoring.NewScorer(scoring.DefaultWeights()),
		anomaly.NewDetector(rates),
		extractor,
		engine.Config{TotalFund: cfg.Fund.Total},
	), nil
}

// setup resolves config and opens everything the commands need.
func setup(ctx context.Context) (*config.Config, *storage.SQLiteStorage, *engine.Engine, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	store, cleanup, err := getDatabase(ctx, cfg)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	eng, err := buildEngine(cfg, store)
	if err != nil {
		cleanup()
		return nil, nil, nil, nil, err
	}

	return cfg, store, eng, cleanup, nil
}

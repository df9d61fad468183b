package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"StockPulse/internal/config"
	"StockPulse/internal/ingest"
	"StockPulse/internal/provider"
	"StockPulse/internal/recorder"
	"StockPulse/internal/scheduler"
	"StockPulse/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockPulse agent starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	symbols := cfg.Symbols()
	log.Printf("[INFO] universe: %d symbols, history window: %d days", len(symbols), cfg.Provider.HistoryDays)

	// Providers, primary first
	chain := provider.NewChain(
		provider.NewAlphaVantage(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Provider.MaxAttempts, cfg.Proxy),
		provider.NewYahoo(cfg.Proxy),
	)

	// Store
	st := store.NewCSVStore(cfg.Storage.DataDir)
	if err := st.EnsureInitialized(); err != nil {
		log.Fatalf("[FATAL] init store: %v", err)
	}

	// Recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Ingestor and freshness policy
	ing := ingest.New(chain, st, symbols, cfg.Provider.HistoryDays, cfg.InterRequestDelay())
	pol := ingest.NewPolicy(st, ingest.DefaultMaxAge)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Scheduler
	sched := scheduler.NewScheduler(ctx, ing, pol, rec)
	if err := sched.Register(cfg.Schedule.IngestCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: ingest immediately on start when stale
	if os.Getenv("RUN_ON_START") == "true" {
		if pol.NeedsUpdate() {
			log.Println("[INFO] RUN_ON_START enabled and data stale, ingesting now")
			go sched.RunNow()
		} else {
			log.Println("[INFO] RUN_ON_START enabled but data fresh, skipping")
		}
	}

	log.Println("[INFO] StockPulse agent is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] StockPulse agent stopped")
}

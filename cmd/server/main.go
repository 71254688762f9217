package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SignalDesk/internal/api"
	"SignalDesk/internal/collector"
	"SignalDesk/internal/config"
	"SignalDesk/internal/metrics"
	"SignalDesk/internal/notifier"
	"SignalDesk/internal/publisher"
	"SignalDesk/internal/scheduler"
	"SignalDesk/internal/service"
	"SignalDesk/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] SignalDesk starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	configs, err := config.NewStore(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	cfg := configs.Current()

	// Metrics and health
	m := metrics.NewMetrics()
	health := metrics.NewHealthStatus()
	var (
		fetchObs   collector.Observer
		cacheObs   collector.CacheObserver
		signalObs  service.SignalObserver
		requestObs api.RequestObserver
	)
	if cfg.Metrics.Enabled {
		fetchObs, cacheObs, signalObs, requestObs = m, m, m, m
	}

	// Offline bar store
	var bars store.BarStore = store.NewNoopStore()
	var offline collector.BarLoader
	if cfg.Providers.Offline.On() {
		ss, err := store.NewSQLiteStore(cfg.Providers.Offline.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite store failed, offline tier disabled: %v", err)
			health.Set("sqlite", false)
		} else {
			bars, offline = ss, ss
			health.Set("sqlite", true)
		}
	}
	defer bars.Close()

	// Providers
	providers := collector.BuildProviders(cfg, offline, fetchObs)
	defer providers.Close()

	// Cache
	var cache collector.Cache = collector.NewNoopCache()
	if cfg.Cache.RedisAddr != "" {
		rc, err := collector.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			log.Printf("[WARN] redis unavailable, caching disabled: %v", err)
			health.Set("redis", false)
		} else {
			cache = rc
			health.Set("redis", true)
		}
	}
	defer cache.Close()
	col := collector.NewCollector(providers.Router, cache, cfg.Cache.TTL, cacheObs)

	// Publisher
	var pub publisher.Publisher = publisher.NewNoopPublisher()
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := publisher.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Printf("[WARN] kafka unavailable, events disabled: %v", err)
			health.Set("kafka", false)
		} else {
			pub = kp
			health.Set("kafka", true)
		}
	}
	defer pub.Close()

	analyzer := service.NewAnalyzer(col, configs, pub, signalObs)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// HTTP API
	opts := api.Options{
		Observer:      requestObs,
		HealthHandler: health,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
	}
	if cfg.Metrics.Enabled {
		opts.MetricsHandler = m.Handler()
	}
	srv := api.NewServer(cfg.Server.Addr, analyzer, opts)
	srv.Start()

	// Telegram bot
	var alerter scheduler.Alerter
	if cfg.Telegram.BotToken != "" {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		alerter = tn
		bot := notifier.NewBot(analyzer, cfg.Server.WriteTimeout)
		go tn.StartPolling(ctx, bot.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	} else {
		log.Println("[INFO] Telegram bot disabled (no bot token)")
	}

	// Scheduler
	sched := scheduler.NewScheduler(ctx, configs, bars, alerter)
	if err := sched.RegisterAll(cfg.Schedule.ReloadCron, cfg.Schedule.PruneCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()

	// Optional: prune immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, pruning offline store now")
		go sched.RunPruneNow()
	}

	log.Printf("[INFO] SignalDesk is running on %s. Press Ctrl+C to stop.", cfg.Server.Addr)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	sched.Stop()
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	log.Println("[INFO] SignalDesk stopped")
}

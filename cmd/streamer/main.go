package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/api"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/auth"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/cache"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/config"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/database"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/model"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/router"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/stream"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/trade"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/streamer.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting streamer",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"ws_url", cfg.KIS.WSURL,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to the shared key-value store
	store := cache.NewRedisStore(redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}), logger)
	if err := store.Ping(ctx); err != nil {
		logger.Error("failed to connect to redis", "addr", cfg.Redis.Addr, "error", err)
		os.Exit(1)
	}
	logger.Info("redis connected", "addr", cfg.Redis.Addr)

	// Credential manager
	creds := auth.NewManager(auth.Config{
		BaseURL:     cfg.KIS.BaseURL,
		AppKey:      cfg.KIS.AppKey,
		AppSecret:   cfg.KIS.AppSecret,
		Timeout:     cfg.KIS.Timeout,
		ApprovalTTL: cfg.KIS.ApprovalTTL,
	}, logger)

	// Optional order journal: enabled when a database host is configured
	var trades *trade.Service
	if cfg.Database.Host != "" {
		logger.Info("connecting to database",
			"host", cfg.Database.Host,
			"port", cfg.Database.Port,
			"database", cfg.Database.Name,
		)
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("database connected")

		apiClient := api.NewClient(cfg.KIS.BaseURL, cfg.KIS.AppKey, cfg.KIS.AppSecret, creds,
			api.WithCustType(cfg.KIS.CustType),
			api.WithTimeout(cfg.KIS.Timeout),
			api.WithRetries(cfg.KIS.MaxRetries, cfg.KIS.Timeout/10),
			api.WithLogger(logger),
		)
		trades = trade.NewService(apiClient, trade.NewPGJournal(pool), trade.Config{
			Order: api.OrderConfig{
				AccountNo:  cfg.Trading.AccountNo,
				BuyTrID:    cfg.Trading.BuyTrID,
				SellTrID:   cfg.Trading.SellTrID,
				CancelTrID: cfg.Trading.CancelTrID,
			},
			DryRun: cfg.Trading.DryRun,
		}, logger)
	}

	// Websocket client and connection supervisor
	wsClient := stream.NewClient(stream.ClientConfig{
		URL:          cfg.KIS.WSURL,
		WriteTimeout: cfg.Stream.WriteTimeout,
		BufferSize:   cfg.Stream.BufferSize,
	}, logger)

	supervisor := stream.NewSupervisor(wsClient, store, creds, stream.Config{
		CustType:   cfg.KIS.CustType,
		SendPacing: cfg.Stream.SendPacing,
	}, logger)

	// The router consults the supervisor's subscription table, so the
	// two are wired after construction.
	rtr := router.New(supervisor, store, logger)
	if trades != nil {
		rtr.SetExecHook(func(ctx context.Context, ev model.ExecutionEvent) {
			if err := trades.HandleExecution(ctx, ev); err != nil {
				logger.Error("journal execution", "order_no", ev.OrderNo, "error", err)
			}
		})
	}
	supervisor.SetHandler(rtr)

	logger.Info("streamer running", "instance_id", cfg.Instance.ID)

	// Run until cancelled or the connection fails. There is no reconnect:
	// a failed connection exits non-zero so the process supervisor
	// restarts us with a clean subscription slate.
	if err := supervisor.Run(ctx); err != nil {
		stats := rtr.Stats()
		logger.Error("streamer exiting on stream failure",
			"error", err,
			"frames_routed", stats.Routed,
			"parse_errors", stats.ParseErrors,
		)
		os.Exit(1)
	}

	stats := rtr.Stats()
	logger.Info("streamer stopped",
		"frames_received", stats.Received,
		"frames_routed", stats.Routed,
	)
}

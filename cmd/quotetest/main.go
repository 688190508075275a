// quotetest fetches one record through the tick cache and prints it.
// A cache miss during trading hours publishes a subscription request, so
// a running streamer on the same Redis will start the feed.
//
// Usage:
//
//	go run ./cmd/quotetest --config configs/streamer.local.yaml --kind price --key 005930
//	go run ./cmd/quotetest --config configs/streamer.local.yaml --daily --key 005930
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/api"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/auth"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/cache"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/config"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/market"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/model"
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/quote"
)

func main() {
	configPath := flag.String("config", "configs/streamer.local.yaml", "path to config file")
	kindFlag := flag.String("kind", "price", "record kind: price, quote, index, exec")
	key := flag.String("key", "005930", "instrument key (stock code, index code, or user id)")
	timeout := flag.Duration("timeout", 10*time.Second, "how long to wait for the first frame")
	daily := flag.Bool("daily", false, "print the daily price series instead of a live record")
	period := flag.String("period", "D", "daily series period: D, W, M")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout+30*time.Second)
	defer cancel()

	creds := auth.NewManager(auth.Config{
		BaseURL:     cfg.KIS.BaseURL,
		AppKey:      cfg.KIS.AppKey,
		AppSecret:   cfg.KIS.AppSecret,
		Timeout:     cfg.KIS.Timeout,
		ApprovalTTL: cfg.KIS.ApprovalTTL,
	}, logger)

	apiClient := api.NewClient(cfg.KIS.BaseURL, cfg.KIS.AppKey, cfg.KIS.AppSecret, creds,
		api.WithCustType(cfg.KIS.CustType),
		api.WithTimeout(cfg.KIS.Timeout),
		api.WithLogger(logger),
	)

	if *daily {
		rows, err := apiClient.DailyPrices(ctx, *key, *period)
		if err != nil {
			logger.Error("daily prices failed", "error", err)
			os.Exit(1)
		}
		for _, row := range rows {
			fmt.Printf("%s open=%.0f high=%.0f low=%.0f close=%.0f vol=%d\n",
				row.Date, row.Open, row.High, row.Low, row.Close, row.Volume)
		}
		return
	}

	kind := model.Kind(*kindFlag)
	if !kind.Valid() {
		logger.Error("unknown kind", "kind", *kindFlag)
		os.Exit(1)
	}

	store := cache.NewRedisStore(redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}), logger)
	if err := store.Ping(ctx); err != nil {
		logger.Error("failed to connect to redis", "addr", cfg.Redis.Addr, "error", err)
		os.Exit(1)
	}

	hours, err := market.NewHours(cfg.Market.Timezone, cfg.Market.Open, cfg.Market.Close)
	if err != nil {
		logger.Error("bad market hours config", "error", err)
		os.Exit(1)
	}

	svc := quote.NewService(store, apiClient, hours, quote.Config{
		PollInterval:   cfg.Fetch.PollInterval,
		DefaultTimeout: cfg.Fetch.DefaultTimeout,
	}, logger)

	start := time.Now()
	data, err := svc.Fetch(ctx, kind, *key, *timeout)
	if err != nil {
		logger.Error("fetch failed", "kind", kind, "key", *key, "error", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(data, "", "  ")
	fmt.Println(string(out))

	logger.Info("fetched",
		"kind", kind,
		"key", *key,
		"elapsed", time.Since(start),
	)
}

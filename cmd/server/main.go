package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/dashboard-invoices/internal/cache"
	"github.com/diewo77/dashboard-invoices/internal/config"
	"github.com/diewo77/dashboard-invoices/internal/db"
	"github.com/diewo77/dashboard-invoices/internal/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Seed demo customers and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()
	cfg := config.Load()

	logg, err := logger.New(cfg.Env, cfg.DBDebug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	if *migrateOnlyFlag {
		cfg.Migrations = true
	}
	if *seedOnlyFlag {
		cfg.Seed = true
	}
	dbConn, err := db.ConnectAndMigrate(cfg, logg)
	if err != nil {
		logg.Fatal("database setup failed", zap.Error(err))
	}
	if *migrateOnlyFlag || *seedOnlyFlag {
		logg.Info("database tasks completed")
		return
	}

	pages, closePages, err := newPageCache(cfg, logg)
	if err != nil {
		logg.Fatal("page cache setup failed", zap.Error(err))
	}
	defer closePages()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      NewApp(dbConn, pages, cfg, logg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logg.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env), zap.String("page_cache", cfg.PageCache))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logg.Error("error during shutdown", zap.Error(err))
	}
	logg.Info("server stopped gracefully")
}

// newPageCache picks the page cache backend from PAGE_CACHE.
func newPageCache(cfg config.Config, logg *zap.Logger) (cache.PageCache, func(), error) {
	if cfg.PageCache != "redis" {
		return cache.NewMemoryCache(cfg.PageCacheTTL), func() {}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pages, client, err := cache.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.PageCacheTTL)
	if err != nil {
		return nil, nil, err
	}
	logg.Info("page cache on redis", zap.String("addr", cfg.RedisAddr))
	return pages, func() { _ = client.Close() }, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Sergio973-web/buscador-mega/internal/config"
	dbRedis "github.com/Sergio973-web/buscador-mega/internal/db/redis"
	logpkg "github.com/Sergio973-web/buscador-mega/internal/logger"
	"github.com/Sergio973-web/buscador-mega/internal/metrics"
	catalogrepo "github.com/Sergio973-web/buscador-mega/internal/repository/catalog"
	"github.com/Sergio973-web/buscador-mega/internal/repository/embcache"
	chiTransport "github.com/Sergio973-web/buscador-mega/internal/transport/chi"
	"github.com/Sergio973-web/buscador-mega/internal/transport/cloudinary"
	"github.com/Sergio973-web/buscador-mega/internal/transport/fetch"
	openaiClient "github.com/Sergio973-web/buscador-mega/internal/transport/openai"
	healthuc "github.com/Sergio973-web/buscador-mega/internal/usecase/health"
	imagesearchuc "github.com/Sergio973-web/buscador-mega/internal/usecase/imagesearch"
	searchuc "github.com/Sergio973-web/buscador-mega/internal/usecase/search"
	"github.com/Sergio973-web/buscador-mega/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting buscador API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("uploads_enabled", cfg.UploadsEnabled()),
		zap.Strings("redis_addrs", cfg.Redis.Addrs),
	)

	// Register collectors explicitly (no init())
	metrics.Register()

	ctx := context.Background()

	httpClient := fetch.NewClient(fetch.ClientConfig{
		RetryMax:     cfg.Fetch.RetryMax,
		RetryWaitMax: time.Duration(cfg.Fetch.RetryWaitMaxSec) * time.Second,
		Timeout:      time.Duration(cfg.Fetch.TimeoutSec) * time.Second,
	}, logger)

	// Redis is an optional fragment source. Pass an untyped nil fetcher when it
	// is absent: a typed nil *fetch.KV wrapped in the interface is not nil.
	var kvFetcher fetch.Fetcher
	var redisStore *dbRedis.Store
	if len(cfg.Redis.Addrs) > 0 {
		redisStore, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Redis.Addrs,
			Password: cfg.Redis.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create redis store", zap.Error(err))
		}
		defer redisStore.Close()

		if err := redisStore.WaitForReady(ctx, time.Duration(cfg.Redis.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Redis not ready", zap.Error(err))
		}
		kvFetcher = fetch.NewKV(redisStore)
		logger.Info("Connected to redis")
	}

	router := fetch.NewRouter(fetch.NewHTTP(httpClient), fetch.File{}, kvFetcher)
	loader, err := catalogrepo.NewLoader(router, cfg.Fetch.Workers, metrics.CatalogFragmentsTotal)
	if err != nil {
		logger.Fatal("Failed to create catalog loader", zap.Error(err))
	}
	defer loader.Release()

	storeMetrics := catalogrepo.WithMetrics(catalogrepo.Metrics{
		Refreshes: metrics.CatalogRefreshTotal,
		Items:     metrics.CatalogItems,
	})
	products := catalogrepo.NewStore(sourceFrom("products", cfg.Catalog.Products), loader,
		cfg.Catalog.Products.TTL(), storeMetrics)
	embeddings := catalogrepo.NewStore(sourceFrom("embeddings", cfg.Catalog.Embeddings), loader,
		cfg.Catalog.Embeddings.TTL(), storeMetrics)

	ai := openaiClient.NewClient(&openaiClient.Config{
		APIKey:         cfg.OpenAI.APIKey,
		BaseURL:        cfg.OpenAI.BaseURL,
		VisionModel:    cfg.OpenAI.VisionModel,
		EmbeddingModel: cfg.OpenAI.EmbeddingModel,
		Dimensions:     cfg.OpenAI.Dimensions,
		Prompt:         cfg.OpenAI.Prompt,
		HTTPClient:     httpClient.StandardClient(),
	})

	// Without Cloudinary credentials the vision pipeline cannot hand the photo
	// to the model, so image search degrades to perceptual hashing.
	var uploader imagesearchuc.Uploader
	if cfg.UploadsEnabled() {
		uploader = cloudinary.New(cloudinary.Config{
			CloudName: cfg.Cloudinary.CloudName,
			APIKey:    cfg.Cloudinary.APIKey,
			APISecret: cfg.Cloudinary.APISecret,
			Folder:    cfg.Cloudinary.Folder,
			BaseURL:   cfg.Cloudinary.BaseURL,
		}, httpClient)
	}

	// With Redis available, description embeddings are cached across requests.
	var embedder imagesearchuc.Embedder = ai
	if redisStore != nil {
		embedder = embcache.New(ai, redisStore, cfg.OpenAI.EmbeddingModel, cfg.Redis.EmbeddingTTL(),
			metrics.EmbeddingCacheTotal, logger)
	}

	searchSvc := searchuc.New(products, embeddings, searchuc.NewTextMatcher(cfg.Search.FuzzyThreshold))
	imageSvc := imagesearchuc.New(uploader, ai, embedder, searchSvc, imagesearchuc.Config{
		TopK:     cfg.Search.ImageTopK,
		HashTopK: cfg.Search.HashTopK,
		Searches: metrics.ImageSearchTotal,
	})

	var redisPinger healthuc.Pinger
	if redisStore != nil {
		redisPinger = redisStore
	}
	healthSvc := healthuc.New([]healthuc.CatalogChecker{products, embeddings}, redisPinger, ai)

	go warmUp(logger, products, embeddings)

	server := chiTransport.NewServer(searchSvc, imageSvc, healthSvc, chiTransport.Options{
		MaxUploadBytes: int64(cfg.HTTP.MaxUploadMB) << 20,
		DefaultPerPage: cfg.Search.DefaultPerPage,
		APIKeys:        cfg.Auth.APIKeys,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func sourceFrom(name string, sc config.SourceConfig) catalogrepo.Source {
	return catalogrepo.Source{Name: name, Index: sc.Index, Fragments: sc.Fragments}
}

// warmUp loads both catalogs before the first request needs them. Failures are
// only logged; the stores retry on demand.
func warmUp(logger *zap.Logger, stores ...*catalogrepo.Store) {
	ctx := logpkg.ContextWithLogger(context.Background(), logger)
	for _, s := range stores {
		start := time.Now()
		items, err := s.Items(ctx)
		if err != nil {
			logger.Warn("Catalog warm-up failed", zap.String("catalog", s.Name()), zap.Error(err))
			continue
		}
		logger.Info("Catalog loaded",
			zap.String("catalog", s.Name()),
			zap.Int("items", len(items)),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

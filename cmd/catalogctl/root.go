package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Sergio973-web/buscador-mega/internal/config"
	dbRedis "github.com/Sergio973-web/buscador-mega/internal/db/redis"
	logpkg "github.com/Sergio973-web/buscador-mega/internal/logger"
	catalogrepo "github.com/Sergio973-web/buscador-mega/internal/repository/catalog"
	"github.com/Sergio973-web/buscador-mega/internal/transport/fetch"
	searchuc "github.com/Sergio973-web/buscador-mega/internal/usecase/search"
)

type rootOptions struct {
	configPath string
	env        string
	verbose    bool
	asJSON     bool
	timeout    time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Query the product and embedding catalogs from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file path (default: config/<env>.yaml)")
	cmd.PersistentFlags().StringVar(&opts.env, "env", config.GetEnv(), "environment used to locate the config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log catalog loading")
	cmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of a table")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "overall time limit")

	cmd.AddCommand(
		newSearchCmd(opts),
		newProvidersCmd(opts),
		newHashCmd(),
		newSimilarCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// stack is the catalog stack a command runs against.
type stack struct {
	cfg    config.Config
	logger *zap.Logger
	search *searchuc.Service
	close  func()
}

func (o *rootOptions) loadConfig() (config.Config, error) {
	if o.configPath != "" {
		cfg, err := config.LoadFile(o.configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.Load(o.env)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// open builds the fetch, loader and store chain. Stores never expire here: a
// command runs once against a single snapshot.
func (o *rootOptions) open(ctx context.Context) (*stack, context.Context, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, ctx, err
	}

	logger := zap.NewNop()
	if o.verbose {
		if logger, err = logpkg.New(o.env, "debug"); err != nil {
			return nil, ctx, fmt.Errorf("create logger: %w", err)
		}
	}
	ctx = logpkg.ContextWithLogger(ctx, logger)

	closers := []func(){func() { _ = logger.Sync() }}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	client := fetch.NewClient(fetch.ClientConfig{
		RetryMax:     cfg.Fetch.RetryMax,
		RetryWaitMax: time.Duration(cfg.Fetch.RetryWaitMaxSec) * time.Second,
		Timeout:      time.Duration(cfg.Fetch.TimeoutSec) * time.Second,
	}, logger)

	var kv fetch.Fetcher
	if len(cfg.Redis.Addrs) > 0 {
		store, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.Redis.Addrs, Password: cfg.Redis.Password})
		if err != nil {
			closeAll()
			return nil, ctx, fmt.Errorf("connect redis: %w", err)
		}
		closers = append(closers, store.Close)
		kv = fetch.NewKV(store)
	}

	loader, err := catalogrepo.NewLoader(fetch.NewRouter(fetch.NewHTTP(client), fetch.File{}, kv), cfg.Fetch.Workers, nil)
	if err != nil {
		closeAll()
		return nil, ctx, fmt.Errorf("create loader: %w", err)
	}
	closers = append(closers, loader.Release)

	products := catalogrepo.NewStore(catalogrepo.Source{
		Name: "products", Index: cfg.Catalog.Products.Index, Fragments: cfg.Catalog.Products.Fragments,
	}, loader, 0)
	embeddings := catalogrepo.NewStore(catalogrepo.Source{
		Name: "embeddings", Index: cfg.Catalog.Embeddings.Index, Fragments: cfg.Catalog.Embeddings.Fragments,
	}, loader, 0)

	return &stack{
		cfg:    cfg,
		logger: logger,
		search: searchuc.New(products, embeddings, searchuc.NewTextMatcher(cfg.Search.FuzzyThreshold)),
		close:  closeAll,
	}, ctx, nil
}

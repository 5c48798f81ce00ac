package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"newsdesk/db"
	"newsdesk/internal/cache"
	"newsdesk/internal/config"
	"newsdesk/internal/ingest"
	"newsdesk/internal/repository"
	"newsdesk/internal/scheduler"
	"newsdesk/pkg/news"

	"github.com/spf13/cobra"
)

const invalidSourceMessage = "Invalid source provided. Allowed values: all, news-api, guardian, ny-times"

var (
	flagSchedule bool
	flagCron     string
)

var rootCmd = &cobra.Command{
	Use:           "fetcher [all|news-api|guardian|ny-times]",
	Short:         "Fetch articles from the news providers and store them",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runFetch,
}

func init() {
	rootCmd.Flags().BoolVar(&flagSchedule, "schedule", false, "keep running and fetch on a cron schedule")
	rootCmd.Flags().StringVar(&flagCron, "cron", "", "cron spec for --schedule (defaults to FETCH_SCHEDULE)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, ingest.ErrInvalidSource) {
			fmt.Fprintln(os.Stderr, invalidSourceMessage)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func runFetch(cmd *cobra.Command, args []string) error {
	selector := ingest.SelectAll
	if len(args) == 1 {
		selector = args[0]
	}

	providers, err := ingest.ParseSelector(selector)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = db.Connect(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("error connecting to DB: %w", err)
	}
	defer db.Close()

	err = db.Migrate(ctx, db.DB, slog.Default())
	if err != nil {
		return fmt.Errorf("error migrating DB: %w", err)
	}

	store, err := newCacheStore(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer db.CloseRedis()

	orchestrator := ingest.New(
		newFetchers(cfg),
		cache.NewMemo(store, slog.Default()),
		cfg.FetchCacheTTL,
		repository.NewArticleRepository(db.DB),
		slog.Default(),
	)

	if !flagSchedule {
		orchestrator.Run(ctx, providers)
		return nil
	}

	spec := flagCron
	if spec == "" {
		spec = cfg.FetchSchedule
	}

	s := scheduler.New(ctx, orchestrator, providers, slog.Default())
	if err := s.Start(spec); err != nil {
		return fmt.Errorf("error starting scheduler: %w", err)
	}

	slog.Info("scheduler started", "cron", spec, "selector", selector)

	<-ctx.Done()
	s.Stop()

	slog.Info("scheduler stopped")
	return nil
}

func newCacheStore(ctx context.Context, redisURL string) (cache.Store, error) {
	if redisURL == "" {
		slog.Warn("REDIS_URL not set, using in-memory fetch cache")
		return cache.NewMemoryStore(), nil
	}

	if err := db.ConnectRedis(ctx, redisURL); err != nil {
		return nil, fmt.Errorf("error connecting to Redis: %w", err)
	}

	return cache.NewRedisStore(db.Redis, ""), nil
}

func newFetchers(cfg config.Config) []ingest.Fetcher {
	keys := map[news.Provider]string{
		news.NewsAPI:  cfg.NewsAPIKey,
		news.Guardian: cfg.GuardianKey,
		news.NYTimes:  cfg.NYTKey,
	}

	var fetchers []ingest.Fetcher
	for _, p := range news.Providers {
		if keys[p] == "" {
			slog.Warn("no API key configured", "source", p.String())
		}
		fetchers = append(fetchers, news.NewClient(p, keys[p]))
	}

	return fetchers
}

package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"newsdesk/internal/cache"
	"newsdesk/internal/model"
	"newsdesk/pkg/news"
)

const SelectAll = "all"

var (
	ErrInvalidSource = errors.New("invalid source")
	ErrEmptyResponse = errors.New("empty response")
	ErrNoFetcher     = errors.New("no fetcher configured")
)

// ParseSelector resolves "all" or a single provider name.
func ParseSelector(selector string) ([]news.Provider, error) {
	if selector == SelectAll {
		return slices.Clone(news.Providers), nil
	}

	p, ok := news.ParseProvider(selector)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSource, selector)
	}

	return []news.Provider{p}, nil
}

type Fetcher interface {
	Provider() news.Provider
	FetchRaw(ctx context.Context) ([]byte, error)
}

type ArticleWriter interface {
	UpsertArticle(ctx context.Context, article *model.Article) (bool, error)
}

type SourceResult struct {
	Provider news.Provider
	Fetched  int
	Created  int
	Updated  int
	Errors   int
	Err      error
}

type Report struct {
	Sources []SourceResult
}

func (r Report) Failed() []news.Provider {
	var failed []news.Provider
	for _, s := range r.Sources {
		if s.Err != nil {
			failed = append(failed, s.Provider)
		}
	}
	return failed
}

type Orchestrator struct {
	fetchers map[news.Provider]Fetcher
	memo     *cache.Memo
	ttl      time.Duration
	articles ArticleWriter
	log      *slog.Logger
}

func New(fetchers []Fetcher, memo *cache.Memo, ttl time.Duration, articles ArticleWriter, log *slog.Logger) *Orchestrator {
	byProvider := make(map[news.Provider]Fetcher, len(fetchers))
	for _, f := range fetchers {
		byProvider[f.Provider()] = f
	}

	return &Orchestrator{
		fetchers: byProvider,
		memo:     memo,
		ttl:      ttl,
		articles: articles,
		log:      log,
	}
}

// Run ingests the selected providers in the fixed provider order. A failing source is reported
// and skipped; the remaining sources still run.
func (o *Orchestrator) Run(ctx context.Context, providers []news.Provider) Report {
	var report Report

	for _, p := range news.Providers {
		if !slices.Contains(providers, p) {
			continue
		}

		report.Sources = append(report.Sources, o.runSource(ctx, p))
	}

	o.log.InfoContext(ctx, "Articles fetched and stored successfully!",
		"sources", len(report.Sources),
		"failed", len(report.Failed()))

	return report
}

func (o *Orchestrator) runSource(ctx context.Context, p news.Provider) SourceResult {
	res := SourceResult{Provider: p}
	key := p.CacheKey()

	articles, err := o.fetch(ctx, p)
	if err != nil {
		o.log.ErrorContext(ctx, fmt.Sprintf("Failed to fetch articles from %s.", key),
			"source", key,
			"error", err)
		res.Err = err
		return res
	}

	res.Fetched = len(articles)

	for _, a := range articles {
		article := model.Article{
			Title:       a.Title,
			Content:     a.Content,
			Author:      a.Author,
			Source:      a.Source,
			Category:    a.Category,
			PublishedAt: a.PublishedAt,
		}

		created, err := o.articles.UpsertArticle(ctx, &article)
		if err != nil {
			o.log.ErrorContext(ctx, "error saving article", "source", key, "title", a.Title, "error", err)
			res.Errors++
			continue
		}

		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}

	o.log.InfoContext(ctx, fmt.Sprintf("Fetched articles from %s.", key),
		"source", key,
		"fetched", res.Fetched,
		"created", res.Created,
		"updated", res.Updated,
		"errors", res.Errors)

	return res
}

func (o *Orchestrator) fetch(ctx context.Context, p news.Provider) ([]news.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fetcher, ok := o.fetchers[p]
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNoFetcher, p)
	}

	raw, err := o.memo.GetOrFetch(ctx, p.CacheKey(), o.ttl, fetcher.FetchRaw)
	if err != nil {
		return nil, err
	}

	if news.IsEmptyPayload(raw) {
		return nil, ErrEmptyResponse
	}

	return news.Normalize(p, raw)
}

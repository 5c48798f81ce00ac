package scheduler

import (
	"context"
	"log/slog"
	"time"

	"newsdesk/internal/ingest"
	"newsdesk/pkg/news"

	"github.com/robfig/cron/v3"
)

const runTimeout = 15 * time.Minute

type Runner interface {
	Run(ctx context.Context, providers []news.Provider) ingest.Report
}

// Scheduler runs ingestion on a cron schedule in UTC.
type Scheduler struct {
	ctx       context.Context
	cron      *cron.Cron
	runner    Runner
	providers []news.Provider
	log       *slog.Logger
}

func New(ctx context.Context, runner Runner, providers []news.Provider, log *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLocation(time.UTC))

	return &Scheduler{
		ctx:       ctx,
		cron:      c,
		runner:    runner,
		providers: providers,
		log:       log,
	}
}

func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runIngestion); err != nil {
		return err
	}

	s.cron.Start()

	return nil
}

// Stop halts the schedule and waits for a running ingestion to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runIngestion() {
	ctx, cancel := context.WithTimeout(s.ctx, runTimeout)
	defer cancel()

	select {
	case <-ctx.Done():
		s.log.InfoContext(ctx, "Scheduler context is done",
			"error", ctx.Err())
		return
	default:
	}

	started := time.Now()
	report := s.runner.Run(ctx, s.providers)

	s.log.InfoContext(ctx, "Scheduled ingestion finished",
		"sources", len(report.Sources),
		"failed", len(report.Failed()),
		"duration", time.Since(started))
}

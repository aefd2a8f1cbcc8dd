// Package scheduler runs periodic datasource rescans on a cron spec.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/mediarr/mediarr/internal/config"
)

// Scheduler fires the rescan trigger for every datasource on the
// configured cron schedule.
type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
}

// New builds a scheduler from the schedule config. An empty rescan spec
// yields a scheduler that does nothing; an unparsable one is an error.
func New(cfg config.ScheduleConfig, datasources []config.DatasourceConfig, trigger func(ds config.DatasourceConfig), log *slog.Logger) (*Scheduler, error) {
	if log == nil {
		log = slog.Default()
	}
	s := &Scheduler{
		cron: cron.New(),
		log:  log.With("component", "scheduler"),
	}
	if cfg.Rescan == "" {
		return s, nil
	}

	_, err := s.cron.AddFunc(cfg.Rescan, func() {
		s.log.Info("scheduled rescan due", "datasources", len(datasources))
		for _, ds := range datasources {
			trigger(ds)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid rescan schedule %q: %w", cfg.Rescan, err)
	}
	s.log.Info("rescan scheduled", "spec", cfg.Rescan)
	return s, nil
}

// Run starts the cron loop and blocks until the context is cancelled.
// In-flight jobs finish before Run returns.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	<-ctx.Done()
	stopped := s.cron.Stop()
	<-stopped.Done()
	return ctx.Err()
}

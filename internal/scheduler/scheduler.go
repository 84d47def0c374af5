package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"tradeview/internal/service"
)

// Scheduler refreshes the watchlist symbols into the cache on a cron
// schedule so interactive requests hit warm data.
type Scheduler struct {
	cron    *cron.Cron
	svc     *service.Service
	symbols []string
	logger  zerolog.Logger
	ctx     context.Context
}

// New creates a Scheduler bound to ctx; refresh runs stop when ctx is done.
func New(ctx context.Context, svc *service.Service, symbols []string, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		svc:     svc,
		symbols: symbols,
		logger:  logger.With().Str("component", "scheduler").Logger(),
		ctx:     ctx,
	}
}

// Register installs the refresh job. A scheduler with no watchlist symbols
// registers nothing and is inert.
func (s *Scheduler) Register(refreshCron string) error {
	if len(s.symbols) == 0 {
		return nil
	}
	if _, err := s.cron.AddFunc(refreshCron, s.refreshAll); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Strs("symbols", s.symbols).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// RunNow executes the refresh immediately (manual trigger / refresh-on-start).
func (s *Scheduler) RunNow() {
	s.refreshAll()
}

func (s *Scheduler) refreshAll() {
	for _, sym := range s.symbols {
		if s.ctx.Err() != nil {
			return
		}
		ctx, cancel := context.WithTimeout(s.ctx, 2*time.Minute)
		if err := s.svc.Refresh(ctx, sym); err != nil {
			s.logger.Error().Err(err).Str("symbol", sym).Msg("watchlist refresh failed")
		}
		cancel()
	}
}

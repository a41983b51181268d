package scheduler

import (
	"context"
	"fmt"
	"time"

	applogger "FundLens/pkg/logger"

	"github.com/robfig/cron/v3"
)

const catalogLockKey = "lock:catalog"

// CatalogRefresher reloads the scheme catalog from upstream.
type CatalogRefresher interface {
	RefreshCatalog(ctx context.Context) (int, error)
}

// Locker serializes jobs across replicas sharing a cache.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// Scheduler runs the catalog warm-up on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	catalog CatalogRefresher
	locker  Locker
	lockTTL time.Duration
	timeout time.Duration
	logger  *applogger.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewScheduler creates a Scheduler. locker may be nil to run without locking.
func NewScheduler(catalog CatalogRefresher, locker Locker, lockTTL time.Duration, logger *applogger.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	if lockTTL <= 0 {
		lockTTL = 5 * time.Minute
	}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		catalog: catalog,
		locker:  locker,
		lockTTL: lockTTL,
		timeout: lockTTL,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// RegisterCatalog schedules the catalog refresh with a seconds-enabled spec.
func (s *Scheduler) RegisterCatalog(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.catalogTask); err != nil {
		return fmt.Errorf("register catalog task: %w", err)
	}
	s.logger.Info("catalog task registered", applogger.String("cron", spec))
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", applogger.Int("jobs", len(s.cron.Entries())))
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunCatalogNow runs the catalog refresh immediately (run_on_start).
func (s *Scheduler) RunCatalogNow() {
	s.catalogTask()
}

func (s *Scheduler) catalogTask() {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	if s.locker != nil {
		ok, err := s.locker.TryLock(ctx, catalogLockKey, s.lockTTL)
		if err != nil {
			s.logger.Warn("catalog lock failed", applogger.Error(err))
			return
		}
		if !ok {
			s.logger.Debug("catalog refresh running elsewhere, skipping")
			return
		}
		defer func() {
			if err := s.locker.Unlock(context.Background(), catalogLockKey); err != nil {
				s.logger.Warn("catalog unlock failed", applogger.Error(err))
			}
		}()
	}

	start := time.Now()
	n, err := s.catalog.RefreshCatalog(ctx)
	if err != nil {
		s.logger.Error("catalog refresh failed", applogger.Error(err), applogger.Duration("elapsed_ms", time.Since(start)))
		return
	}
	s.logger.Info("catalog refreshed", applogger.Int("schemes", n), applogger.Duration("elapsed_ms", time.Since(start)))
}

package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"FundLens/internal/domain/models"
	"FundLens/internal/domain/repository"
	"FundLens/internal/services/navseries"
	applogger "FundLens/pkg/logger"
)

// NavArchiver hands validated NAV history to the configured archive backend.
// Writes are best effort: failures are logged and counted, never returned to
// API callers.
type NavArchiver struct {
	archive repository.NavArchive
	metrics repository.Metrics
	logger  *applogger.Logger
	timeout time.Duration
	now     func() time.Time

	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// NewNavArchiver creates an archiver. A nil archive makes Submit a no-op.
func NewNavArchiver(archive repository.NavArchive, metrics repository.Metrics, logger *applogger.Logger, timeout time.Duration) *NavArchiver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NavArchiver{
		archive: archive,
		metrics: metrics,
		logger:  logger,
		timeout: timeout,
		now:     time.Now,
	}
}

// Backend names the archive backend, "none" when disabled.
func (a *NavArchiver) Backend() string {
	if a.archive == nil {
		return "none"
	}
	return a.archive.Name()
}

// Submit archives d in the background.
func (a *NavArchiver) Submit(d *models.FundDetails) {
	if a.archive == nil || d == nil {
		return
	}
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.wg.Add(1)
	a.mu.Unlock()

	snap := BuildSnapshot(d, a.now())
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		_ = a.Archive(ctx, snap)
	}()
}

// Archive writes snap synchronously.
func (a *NavArchiver) Archive(ctx context.Context, snap *models.NavSnapshot) error {
	if a.archive == nil {
		return nil
	}
	if len(snap.Records) == 0 {
		return nil
	}

	start := time.Now()
	err := a.archive.Archive(ctx, snap)
	a.metrics.RecordArchive(a.archive.Name(), len(snap.Records), err)
	if err != nil {
		a.metrics.RecordError("archive")
		a.logger.Warn("nav archive failed",
			applogger.String("backend", a.archive.Name()),
			applogger.Int("scheme_code", snap.Meta.SchemeCode),
			applogger.Error(err),
		)
		return fmt.Errorf("archive scheme %d: %w", snap.Meta.SchemeCode, err)
	}
	a.metrics.RecordLatency("archive", time.Since(start).Seconds())
	a.logger.Debug("nav archived",
		applogger.String("backend", a.archive.Name()),
		applogger.Int("scheme_code", snap.Meta.SchemeCode),
		applogger.Int("rows", len(snap.Records)),
	)
	return nil
}

// Wait blocks until in-flight submissions are done.
func (a *NavArchiver) Wait() {
	a.wg.Wait()
}

// Close stops accepting work, drains in-flight writes and closes the backend.
func (a *NavArchiver) Close() error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	a.wg.Wait()
	if a.archive != nil {
		return a.archive.Close()
	}
	return nil
}

// BuildSnapshot converts the valid samples of d into archive records, oldest
// first.
func BuildSnapshot(d *models.FundDetails, fetchedAt time.Time) *models.NavSnapshot {
	valid, _ := navseries.Validate(d.Data)
	points := navseries.Filter(valid, navseries.WindowAll, navseries.CalendarDate{})
	records := make([]models.NavRecord, len(points))
	for i, p := range points {
		records[i] = models.NavRecord{
			SchemeCode: d.Meta.SchemeCode,
			Date:       p.Date.ISO(),
			NAV:        p.Value,
		}
	}
	return &models.NavSnapshot{
		Meta:      d.Meta,
		FetchedAt: fetchedAt.Unix(),
		Records:   records,
	}
}


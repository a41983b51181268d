package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"FundLens/internal/domain/models"
	"FundLens/internal/domain/repository"
	"FundLens/internal/services/navseries"
	"FundLens/pkg/cache"
	applogger "FundLens/pkg/logger"
	"FundLens/pkg/util"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	catalogKey   = "catalog"
	detailsScope = "fund"
)

// SchemeRow is one catalog entry with its derived fund type.
type SchemeRow struct {
	models.SchemeSummary
	FundType models.FundType `json:"fundType"`
}

// SchemePage is one page of a catalog search.
type SchemePage struct {
	Rows       []SchemeRow `json:"rows"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

// SeriesPoint is one rendered NAV observation.
type SeriesPoint struct {
	Date string  `json:"date"`
	NAV  float64 `json:"nav"`
}

// FundView is the fund-detail payload for one window.
type FundView struct {
	Meta         models.FundMeta             `json:"meta"`
	Window       navseries.Window            `json:"window"`
	WindowLabel  string                      `json:"window_label"`
	Series       []SeriesPoint               `json:"series"`
	Stats        *navseries.PerformanceStats `json:"stats"`
	ValidCount   int                         `json:"valid_count"`
	DroppedCount int                         `json:"dropped_count"`
	AsOf         string                      `json:"as_of"`
}

// FundServiceConfig holds tunables for FundService.
type FundServiceConfig struct {
	CatalogTTL    time.Duration
	DetailsTTL    time.Duration
	// how long a decoded catalog is reused in process before the cache is read again
	SnapshotTTL   time.Duration
	Location      *time.Location
	DefaultWindow navseries.Window
	Now           func() time.Time
}

// FundService serves the catalog and fund-detail views.
type FundService struct {
	source   repository.FundSource
	cache    cache.Service
	archiver *NavArchiver
	metrics  repository.Metrics
	logger   *applogger.Logger
	cfg      FundServiceConfig

	// collapses concurrent upstream fetches of the same key
	flight singleflight.Group

	snapMu   sync.RWMutex
	snapRows []models.SchemeSummary
	snapExp  time.Time
}

// NewFundService wires a FundService. archiver may be nil.
func NewFundService(
	source repository.FundSource,
	c cache.Service,
	archiver *NavArchiver,
	metrics repository.Metrics,
	logger *applogger.Logger,
	cfg FundServiceConfig,
) *FundService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.SnapshotTTL <= 0 {
		cfg.SnapshotTTL = time.Minute
	}
	if cfg.DefaultWindow == "" {
		cfg.DefaultWindow = navseries.DefaultWindow()
	}
	return &FundService{
		source:   source,
		cache:    c,
		archiver: archiver,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
	}
}

// Today is the current calendar date in the configured time zone.
func (s *FundService) Today() navseries.CalendarDate {
	return navseries.DateOf(s.cfg.Now().In(s.cfg.Location))
}

// DefaultWindow is the window used when a caller gives none.
func (s *FundService) DefaultWindow() navseries.Window {
	return s.cfg.DefaultWindow
}

// Catalog returns the full scheme list. A decoded copy is reused for
// SnapshotTTL, then the cache is consulted, then upstream. The returned
// slice is shared and must not be modified.
func (s *FundService) Catalog(ctx context.Context) ([]models.SchemeSummary, error) {
	if rows, ok := s.snapshot(); ok {
		s.metrics.RecordCache("catalog", true)
		return rows, nil
	}

	rows, hit, err := cache.GetOrLoad(ctx, s.cache, catalogKey, s.cfg.CatalogTTL, func(ctx context.Context) ([]models.SchemeSummary, error) {
		v, err := s.shared(ctx, catalogKey, func(ctx context.Context) (interface{}, error) {
			return s.source.ListSchemes(ctx)
		})
		if err != nil {
			return nil, err
		}
		return v.([]models.SchemeSummary), nil
	})
	s.metrics.RecordCache("catalog", hit)
	if err != nil {
		s.metrics.RecordError("catalog")
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	s.storeSnapshot(rows)
	return rows, nil
}

func (s *FundService) snapshot() ([]models.SchemeSummary, bool) {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	if s.snapRows == nil || !s.cfg.Now().Before(s.snapExp) {
		return nil, false
	}
	return s.snapRows, true
}

func (s *FundService) storeSnapshot(rows []models.SchemeSummary) {
	if rows == nil {
		rows = []models.SchemeSummary{}
	}
	s.snapMu.Lock()
	s.snapRows = rows
	s.snapExp = s.cfg.Now().Add(s.cfg.SnapshotTTL)
	s.snapMu.Unlock()
}

// shared runs fn once per key across concurrent callers. fn gets a context
// that outlives any single caller's cancellation; a cancelled caller stops
// waiting but the fetch continues for the others.
func (s *FundService) shared(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(key, func() (interface{}, error) {
		return fn(detached)
	})
	select {
	case r := <-ch:
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RefreshCatalog fetches the catalog from upstream and replaces the cached copy.
func (s *FundService) RefreshCatalog(ctx context.Context) (int, error) {
	rows, err := s.source.ListSchemes(ctx)
	if err != nil {
		s.metrics.RecordCatalogRefresh(0, err)
		return 0, fmt.Errorf("refresh catalog: %w", err)
	}
	if err := s.cache.Set(ctx, catalogKey, rows, s.cfg.CatalogTTL); err != nil {
		s.logger.Warn("catalog cache store failed", applogger.Error(err))
	}
	s.storeSnapshot(rows)
	s.metrics.RecordCatalogRefresh(len(rows), nil)
	return len(rows), nil
}

// ListSchemes filters the catalog by a case-insensitive substring of the
// scheme name and returns the requested 1-based page.
func (s *FundService) ListSchemes(ctx context.Context, query string, page, limit int) (*SchemePage, error) {
	all, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}
	limit = util.ClampInt(limit, 1, MaxPageSize)
	if page < 1 {
		page = 1
	}

	matched := filterSchemes(all, query)
	total := len(matched)

	rows := []SchemeRow{}
	start := (page - 1) * limit
	if start < total {
		end := start + limit
		if end > total {
			end = total
		}
		rows = make([]SchemeRow, 0, end-start)
		for _, sc := range matched[start:end] {
			rows = append(rows, SchemeRow{SchemeSummary: sc, FundType: ClassifyScheme(sc.SchemeName)})
		}
	}

	return &SchemePage{
		Rows:       rows,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: util.CeilDiv(total, limit),
	}, nil
}

func filterSchemes(all []models.SchemeSummary, query string) []models.SchemeSummary {
	query = strings.TrimSpace(query)
	if query == "" {
		return all
	}
	fold := cases.Fold()
	needle := fold.String(query)
	out := make([]models.SchemeSummary, 0)
	for _, sc := range all {
		if strings.Contains(fold.String(sc.SchemeName), needle) {
			out = append(out, sc)
		}
	}
	return out
}

// Details returns the raw scheme data, from cache when possible. Each
// upstream fetch is handed to the archiver once, however many callers
// were waiting on it.
func (s *FundService) Details(ctx context.Context, code int) (*models.FundDetails, error) {
	key := cache.GenerateKey(detailsScope, strconv.Itoa(code))
	d, hit, err := cache.GetOrLoad(ctx, s.cache, key, s.cfg.DetailsTTL, func(ctx context.Context) (*models.FundDetails, error) {
		v, err := s.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
			d, err := s.source.FundDetails(ctx, code)
			if err == nil && s.archiver != nil {
				s.archiver.Submit(d)
			}
			return d, err
		})
		if err != nil {
			return nil, err
		}
		return v.(*models.FundDetails), nil
	})
	s.metrics.RecordCache("details", hit)
	if err != nil {
		s.metrics.RecordError("details")
		return nil, fmt.Errorf("load scheme %d: %w", code, err)
	}
	return d, nil
}

// Render derives the windowed series and its statistics from raw details.
func (s *FundService) Render(d *models.FundDetails, w navseries.Window) navseries.View {
	return s.render(d, w, s.Today())
}

func (s *FundService) render(d *models.FundDetails, w navseries.Window, today navseries.CalendarDate) navseries.View {
	start := time.Now()
	view := navseries.Render(d.Data, w, today)
	s.metrics.RecordLatency("render", time.Since(start).Seconds())
	s.metrics.RecordDropped(view.Dropped)
	if view.Dropped > 0 {
		s.logger.Debug("nav samples dropped",
			applogger.Int("scheme_code", d.Meta.SchemeCode),
			applogger.Int("dropped", view.Dropped),
			applogger.Int("valid", view.Valid),
		)
	}
	return view
}

// FundView loads a scheme and renders it for the window.
func (s *FundService) FundView(ctx context.Context, code int, w navseries.Window) (*FundView, error) {
	d, err := s.Details(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.NewFundView(d, w), nil
}

// NewFundView renders already loaded details for the window.
func (s *FundService) NewFundView(d *models.FundDetails, w navseries.Window) *FundView {
	today := s.Today()
	view := s.render(d, w, today)
	series := make([]SeriesPoint, len(view.Points))
	for i, p := range view.Points {
		series[i] = SeriesPoint{Date: p.Date.String(), NAV: p.Value}
	}
	return &FundView{
		Meta:         d.Meta,
		Window:       view.Window,
		WindowLabel:  view.Window.Label(),
		Series:       series,
		Stats:        view.Stats,
		ValidCount:   view.Valid,
		DroppedCount: view.Dropped,
		AsOf:         today.ISO(),
	}
}

package repository

import (
	"context"
	"errors"

	"FundLens/internal/domain/models"
)

var (
	ErrSchemeNotFound = errors.New("scheme not found")
	ErrUpstream       = errors.New("upstream unavailable")
)

// FundSource reads scheme data from the upstream API.
type FundSource interface {
	ListSchemes(ctx context.Context) ([]models.SchemeSummary, error)
	FundDetails(ctx context.Context, code int) (*models.FundDetails, error)
}

// NavArchive persists validated NAV history.
type NavArchive interface {
	Name() string
	Archive(ctx context.Context, snap *models.NavSnapshot) error
	Close() error
}

type Metrics interface {
	RecordUpstream(endpoint string, seconds float64, err error)
	RecordCache(kind string, hit bool)
	RecordDropped(n int)
	RecordArchive(backend string, rows int, err error)
	RecordCatalogRefresh(rows int, err error)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}

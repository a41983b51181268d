package mfapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"FundLens/internal/domain/models"
	"FundLens/internal/domain/repository"
	xhttp "FundLens/pkg/http"
)

const (
	endpointList    = "list"
	endpointDetails = "details"
)

// Client reads schemes and NAV history from mfapi.in.
type Client struct {
	baseURL string
	http    *xhttp.Client
	metrics repository.Metrics
}

// New creates an mfapi client. A nil metrics recorder disables recording.
func New(baseURL string, timeout time.Duration, metrics repository.Metrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		metrics: metrics,
	}
}

type detailsResponse struct {
	Meta   models.FundMeta    `json:"meta"`
	Data   []models.NavSample `json:"data"`
	Status string             `json:"status"`
}

// ListSchemes returns the full scheme catalog.
func (c *Client) ListSchemes(ctx context.Context) ([]models.SchemeSummary, error) {
	var out []models.SchemeSummary
	err := c.get(ctx, endpointList, c.baseURL+"/mf", &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FundDetails returns the scheme metadata and its NAV history, newest first.
func (c *Client) FundDetails(ctx context.Context, code int) (*models.FundDetails, error) {
	var resp detailsResponse
	err := c.get(ctx, endpointDetails, c.baseURL+"/mf/"+strconv.Itoa(code), &resp)
	if err != nil {
		return nil, err
	}
	// mfapi answers unknown codes with 200 and an empty meta.
	if resp.Meta.SchemeCode == 0 {
		return nil, fmt.Errorf("scheme %d: %w", code, repository.ErrSchemeNotFound)
	}
	if resp.Data == nil {
		resp.Data = []models.NavSample{}
	}
	return &models.FundDetails{Meta: resp.Meta, Data: resp.Data}, nil
}

func (c *Client) get(ctx context.Context, endpoint, url string, dest interface{}) error {
	start := time.Now()
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    url,
	}, dest)
	if c.metrics != nil {
		c.metrics.RecordUpstream(endpoint, time.Since(start).Seconds(), err)
	}
	if err == nil {
		return nil
	}

	var se *xhttp.StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound && endpoint == endpointDetails {
		return fmt.Errorf("mfapi %s: %w", endpoint, repository.ErrSchemeNotFound)
	}
	return fmt.Errorf("mfapi %s: %w: %v", endpoint, repository.ErrUpstream, err)
}

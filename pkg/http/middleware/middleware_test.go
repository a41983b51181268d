package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	applogger "FundLens/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingAllower struct {
	left int
	keys []string
}

func (a *countingAllower) Allow(key string) bool {
	a.keys = append(a.keys, key)
	if a.left <= 0 {
		return false
	}
	a.left--
	return true
}

func serve(e *echo.Echo, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func ok(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	var seen string
	e.GET("/", func(c echo.Context) error {
		seen = RequestIDFrom(c)
		return ok(c)
	})

	rec := serve(e, http.MethodGet, "/", nil)
	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 36)
	assert.Equal(t, rec.Header().Get(echo.HeaderXRequestID), seen)

	rec = serve(e, http.MethodGet, "/", http.Header{echo.HeaderXRequestID: {"abc-123"}})
	assert.Equal(t, "abc-123", rec.Header().Get(echo.HeaderXRequestID))
}

func TestRateLimit(t *testing.T) {
	a := &countingAllower{left: 1}
	e := echo.New()
	e.Use(RateLimit(a, 2, "/healthz"))
	e.GET("/api", ok)
	e.GET("/healthz", ok)

	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/api", nil).Code)

	rec := serve(e, http.MethodGet, "/api", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "ERR_RATE_LIMITED")

	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/healthz", nil).Code)
	assert.Len(t, a.keys, 2)
	assert.Equal(t, "192.0.2.1", a.keys[0])
}

func TestRecoverWritesEnvelopeAndLogs(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(Recover(applogger.NewWriter(&buf)))
	e.GET("/boom", func(echo.Context) error { panic("boom") })

	rec := serve(e, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":500,"message":"Internal Server Error"}`, rec.Body.String())
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "boom")
}

func TestRequestLoggingLevels(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogging(applogger.NewWriter(&buf), 0))
	e.GET("/ok", ok)
	e.GET("/fail", func(echo.Context) error { return echo.NewHTTPError(http.StatusServiceUnavailable) })

	serve(e, http.MethodGet, "/ok", nil)
	serve(e, http.MethodGet, "/fail", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"level":"info"`)
	assert.Contains(t, lines[0], `"route":"/ok"`)
	assert.Contains(t, lines[1], `"level":"error"`)
	assert.Contains(t, lines[1], `"status":503`)
}

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/funds/:code", ok)

	serve(e, http.MethodGet, "/api/funds/1", nil)
	serve(e, http.MethodGet, "/api/funds/2", nil)
	serve(e, http.MethodGet, "/missing", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/api/funds/:code", http.MethodGet, "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight.WithLabelValues("/api/funds/:code", http.MethodGet)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.requestsTotal))
}

func TestCORS(t *testing.T) {
	e := echo.New()
	e.Use(CORS(CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet},
		AllowHeaders:  []string{echo.HeaderContentType},
		ExposeHeaders: []string{echo.HeaderXRequestID},
		MaxAge:        600,
	}))
	e.GET("/", ok)

	rec := serve(e, http.MethodOptions, "/", http.Header{"Origin": {"https://app.example"}})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "GET", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
	assert.Equal(t, "600", rec.Header().Get(echo.HeaderAccessControlMaxAge))

	rec = serve(e, http.MethodGet, "/", http.Header{"Origin": {"https://app.example"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, echo.HeaderXRequestID, rec.Header().Get(echo.HeaderAccessControlExposeHeaders))
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods))
}

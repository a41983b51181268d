package clickhouse

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresHost(t *testing.T) {
	_, err := NewClient(WithAddress("", 9000))
	assert.Error(t, err)
}

func TestBuildDSN(t *testing.T) {
	cfg := ClientConfig{}
	for _, opt := range []ClientOption{
		WithAddress("ch.internal", 9440),
		WithPool(4, 2, time.Minute),
		WithDatabase("fundlens"),
		WithCredentials("writer", "p@ss:word"),
		WithTimeouts(5*time.Second, 10*time.Second, 10*time.Second),
		WithMaxExecutionTime(30 * time.Second),
		WithAsyncInsert(true, true),
	} {
		opt(&cfg)
	}

	u, err := url.Parse(buildDSN(cfg))
	require.NoError(t, err)
	assert.Equal(t, "clickhouse", u.Scheme)
	assert.Equal(t, "ch.internal:9440", u.Host)
	assert.Equal(t, "/fundlens", u.Path)
	assert.Equal(t, "writer", u.User.Username())
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss:word", pw)

	q := u.Query()
	assert.Equal(t, "5s", q.Get("dial_timeout"))
	assert.Equal(t, "10s", q.Get("read_timeout"))
	assert.Equal(t, "30", q.Get("max_execution_time"))
	assert.Equal(t, "1", q.Get("async_insert"))
	assert.Equal(t, "1", q.Get("wait_for_async_insert"))
	assert.Empty(t, q.Get("write_timeout"))
}

func TestBuildDSNOverHTTP(t *testing.T) {
	cfg := ClientConfig{Host: "localhost", Port: 8123, Database: "default", User: "default"}
	WithHTTP(true)(&cfg)

	u, err := url.Parse(buildDSN(cfg))
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Empty(t, u.RawQuery)
}

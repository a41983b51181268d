package scheduler

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"FundLens/pkg/cache"
	applogger "FundLens/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRefresher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeRefresher) RefreshCatalog(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return 42, nil
}

func (f *fakeRefresher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestRunCatalogNow(t *testing.T) {
	var buf bytes.Buffer
	r := &fakeRefresher{}
	mc := cache.NewMemoryCache()
	defer mc.Close()

	s := NewScheduler(r, mc, time.Minute, applogger.NewWriter(&buf))
	s.RunCatalogNow()

	assert.Equal(t, 1, r.count())
	assert.Contains(t, buf.String(), `"schemes":42`)

	// The lock is released after the run.
	ok, err := mc.Exists(context.Background(), catalogLockKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalogSkippedWhileLocked(t *testing.T) {
	r := &fakeRefresher{}
	mc := cache.NewMemoryCache()
	defer mc.Close()

	held, err := mc.TryLock(context.Background(), catalogLockKey, time.Minute)
	require.NoError(t, err)
	require.True(t, held)

	NewScheduler(r, mc, time.Minute, applogger.Nop()).RunCatalogNow()
	assert.Equal(t, 0, r.count())
}

func TestCatalogFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	r := &fakeRefresher{err: errors.New("upstream down")}

	NewScheduler(r, nil, time.Minute, applogger.NewWriter(&buf)).RunCatalogNow()
	assert.Equal(t, 1, r.count())
	assert.Contains(t, buf.String(), "catalog refresh failed")
	assert.Contains(t, buf.String(), "upstream down")
}

func TestRegisterCatalog(t *testing.T) {
	s := NewScheduler(&fakeRefresher{}, nil, time.Minute, applogger.Nop())
	require.NoError(t, s.RegisterCatalog("0 0 */6 * * *"))
	assert.Error(t, s.RegisterCatalog("every six hours"))

	s.Start()
	s.Stop()
}

func TestScheduledRun(t *testing.T) {
	r := &fakeRefresher{}
	s := NewScheduler(r, nil, time.Minute, applogger.Nop())
	require.NoError(t, s.RegisterCatalog("* * * * * *"))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return r.count() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

package ratelimit

import (
    "testing"
    "time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(capacity, rate float64) (*Limiter, *fakeClock) {
    clk := &fakeClock{t: time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)}
    l := New(capacity, rate)
    l.now = clk.now
    l.lastSweep = clk.t
    return l, clk
}

func TestAllowBurstThenDeny(t *testing.T) {
    l, _ := newTestLimiter(3, 1)
    for i := 0; i < 3; i++ {
        if !l.Allow("a") {
            t.Fatalf("request %d should pass", i)
        }
    }
    if l.Allow("a") {
        t.Fatalf("fourth request should be limited")
    }
    if !l.Allow("b") {
        t.Fatalf("other keys have their own bucket")
    }
}

func TestRefill(t *testing.T) {
    l, clk := newTestLimiter(2, 2)
    l.Allow("a")
    l.Allow("a")
    if l.Allow("a") {
        t.Fatalf("expected empty bucket")
    }
    clk.advance(500 * time.Millisecond)
    if !l.Allow("a") {
        t.Fatalf("expected one token after refill")
    }
    clk.advance(time.Hour)
    if !l.Allow("a") || !l.Allow("a") || l.Allow("a") {
        t.Fatalf("refill must cap at capacity")
    }
}

func TestSweepDropsIdleKeys(t *testing.T) {
    l, clk := newTestLimiter(1, 1)
    l.Allow("a")
    l.Allow("b")
    clk.advance(11 * time.Minute)
    l.Allow("c")
    if got := l.Len(); got != 1 {
        t.Fatalf("expected idle keys swept, have %d", got)
    }
}

package navseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in   string
		want Window
		ok   bool
	}{
		{in: "", want: Window1Y, ok: true},
		{in: "1M", want: Window1M, ok: true},
		{in: "3m", want: Window3M, ok: true},
		{in: " 6M ", want: Window6M, ok: true},
		{in: "5y", want: Window5Y, ok: true},
		{in: "all", want: WindowAll, ok: true},
		{in: "2W", ok: false},
		{in: "10Y", ok: false},
	}
	for _, tc := range tests {
		got, ok := ParseWindow(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestWindowMonthsAndLabels(t *testing.T) {
	assert.Equal(t, 1, Window1M.Months())
	assert.Equal(t, 12, Window1Y.Months())
	assert.Equal(t, 60, Window5Y.Months())
	assert.Equal(t, 0, WindowAll.Months())
	assert.Equal(t, "3 Years", Window3Y.Label())
	assert.Equal(t, "All Time", WindowAll.Label())
	assert.True(t, Window6M.Bounded())
	assert.False(t, WindowAll.Bounded())

	opts := WindowOptions()
	assert.Len(t, opts, 7)
	assert.Equal(t, Window1M, opts[0].Value)
	assert.Equal(t, WindowAll, opts[len(opts)-1].Value)

	// Callers cannot mutate the shared table.
	opts[0].Label = "changed"
	assert.Equal(t, "1 Month", Window1M.Label())
}

func TestWindowCutoff(t *testing.T) {
	today := NewCalendarDate(2024, time.May, 31)

	cutoff, ok := Window3M.Cutoff(today)
	assert.True(t, ok)
	assert.Equal(t, NewCalendarDate(2024, time.March, 2), cutoff)

	cutoff, ok = Window1Y.Cutoff(today)
	assert.True(t, ok)
	assert.Equal(t, NewCalendarDate(2023, time.May, 31), cutoff)

	_, ok = WindowAll.Cutoff(today)
	assert.False(t, ok)
}

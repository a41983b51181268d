package navseries

import (
	"testing"
	"time"

	"FundLens/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newest first, as the upstream delivers it
func sampleSeries() []models.NavSample {
	return []models.NavSample{
		{Date: "14-06-2024", NAV: "110.0000"},
		{Date: "15-05-2024", NAV: "105.5000"},
		{Date: "31-02-2024", NAV: "999.0000"},
		{Date: "15-03-2024", NAV: "0"},
		{Date: "14-03-2024", NAV: "abc"},
		{Date: "15-01-2024", NAV: "100.0000"},
		{Date: "15-06-2023", NAV: "90.0000"},
		{Date: "01-01-2020", NAV: "50.0000"},
	}
}

var today = NewCalendarDate(2024, time.June, 15)

func dates(points []Point) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.Date.String()
	}
	return out
}

func TestValidate(t *testing.T) {
	valid, dropped := Validate(sampleSeries())
	assert.Equal(t, 3, dropped)
	assert.Equal(t, []string{"14-06-2024", "15-05-2024", "15-01-2024", "15-06-2023", "01-01-2020"}, dates(valid))
	assert.Equal(t, 110.0, valid[0].Value)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{in: "12.3456", want: 12.3456, ok: true},
		{in: " 10 ", want: 10, ok: true},
		{in: "1e2", want: 100, ok: true},
		{in: "0", ok: false},
		{in: "0.0000", ok: false},
		{in: "-5.2", ok: false},
		{in: "", ok: false},
		{in: "N.A.", ok: false},
		{in: "NaN", ok: false},
		{in: "Infinity", ok: false},
		{in: "1e400", ok: false},
	}
	for _, tc := range tests {
		got, ok := ParseValue(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 1e-9, "input %q", tc.in)
		}
	}
}

func TestFilterWindows(t *testing.T) {
	valid, _ := Validate(sampleSeries())

	tests := []struct {
		window Window
		want   []string
	}{
		{window: Window1M, want: []string{"15-05-2024", "14-06-2024"}},
		{window: Window3M, want: []string{"15-05-2024", "14-06-2024"}},
		{window: Window6M, want: []string{"15-01-2024", "15-05-2024", "14-06-2024"}},
		{window: Window1Y, want: []string{"15-06-2023", "15-01-2024", "15-05-2024", "14-06-2024"}},
		{window: Window3Y, want: []string{"15-06-2023", "15-01-2024", "15-05-2024", "14-06-2024"}},
		{window: Window5Y, want: []string{"01-01-2020", "15-06-2023", "15-01-2024", "15-05-2024", "14-06-2024"}},
		{window: WindowAll, want: []string{"01-01-2020", "15-06-2023", "15-01-2024", "15-05-2024", "14-06-2024"}},
	}
	for _, tc := range tests {
		t.Run(string(tc.window), func(t *testing.T) {
			assert.Equal(t, tc.want, dates(Filter(valid, tc.window, today)))
		})
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	valid, _ := Validate(sampleSeries())
	for _, opt := range WindowOptions() {
		once := Filter(valid, opt.Value, today)
		twice := Filter(once, opt.Value, today)
		assert.Equal(t, once, twice, "window %s", opt.Value)
	}
}

func TestFilterAlwaysAscending(t *testing.T) {
	shuffled := []Point{
		{Date: NewCalendarDate(2024, time.March, 1), Value: 3},
		{Date: NewCalendarDate(2024, time.January, 1), Value: 1},
		{Date: NewCalendarDate(2024, time.June, 1), Value: 6},
		{Date: NewCalendarDate(2024, time.February, 1), Value: 2},
	}
	ascendingInput := []Point{
		{Date: NewCalendarDate(2024, time.January, 1), Value: 1},
		{Date: NewCalendarDate(2024, time.February, 1), Value: 2},
	}

	for _, opt := range WindowOptions() {
		for _, in := range [][]Point{shuffled, ascendingInput} {
			out := Filter(in, opt.Value, today)
			assert.True(t, ascending(out), "window %s gave %v", opt.Value, dates(out))
		}
	}
}

func TestFilterAllIgnoresToday(t *testing.T) {
	valid, _ := Validate(sampleSeries())
	past := NewCalendarDate(1990, time.January, 1)
	assert.Equal(t, Filter(valid, WindowAll, today), Filter(valid, WindowAll, past))
	assert.Len(t, Filter(valid, WindowAll, past), len(valid))
}

func TestFilterEmpty(t *testing.T) {
	assert.Empty(t, Filter(nil, Window1Y, today))
	assert.Empty(t, Filter(nil, WindowAll, today))
}

func TestRender(t *testing.T) {
	view := Render(sampleSeries(), Window6M, today)
	assert.Equal(t, Window6M, view.Window)
	assert.Equal(t, 5, view.Valid)
	assert.Equal(t, 3, view.Dropped)
	require.Len(t, view.Points, 3)
	require.NotNil(t, view.Stats)
	assert.Equal(t, 110.0, view.Stats.LatestNAV)
	assert.InDelta(t, 10.0, view.Stats.Change, 1e-9)
	assert.Equal(t, 10.0, view.Stats.ChangePercent)
}

func TestRenderAllInvalid(t *testing.T) {
	raw := []models.NavSample{
		{Date: "14-06-2024", NAV: "0"},
		{Date: "13-06-2024", NAV: "-1"},
		{Date: "12-06-2024", NAV: "n/a"},
		{Date: "garbage", NAV: "10"},
	}
	for _, opt := range WindowOptions() {
		view := Render(raw, opt.Value, today)
		assert.Empty(t, view.Points)
		assert.Nil(t, view.Stats)
		assert.Equal(t, 0, view.Valid)
		assert.Equal(t, 4, view.Dropped)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	a := Render(sampleSeries(), Window1Y, today)
	b := Render(sampleSeries(), Window1Y, today)
	assert.Equal(t, a, b)
}

package navseries

import (
	"math"
	"sort"
	"strings"

	"FundLens/internal/domain/models"

	"github.com/shopspring/decimal"
)

// Point is a validated sample: a real calendar date and a positive NAV.
type Point struct {
	Date  CalendarDate
	Value float64
}

// View is everything the presentation layer needs for one window selection.
type View struct {
	Window  Window
	Points  []Point
	Stats   *PerformanceStats
	Valid   int
	Dropped int
}

// Render derives the windowed, ascending series and its statistics from the
// raw upstream samples. It holds no state between calls.
func Render(raw []models.NavSample, w Window, today CalendarDate) View {
	valid, dropped := Validate(raw)
	points := Filter(valid, w, today)
	return View{
		Window:  w,
		Points:  points,
		Stats:   Compute(points),
		Valid:   len(valid),
		Dropped: dropped,
	}
}

// Validate keeps the samples whose date parses and whose value is a finite
// number strictly greater than zero. Input order is preserved.
func Validate(raw []models.NavSample) ([]Point, int) {
	out := make([]Point, 0, len(raw))
	for _, s := range raw {
		d, ok := ParseDate(s.Date)
		if !ok {
			continue
		}
		v, ok := ParseValue(s.NAV)
		if !ok {
			continue
		}
		out = append(out, Point{Date: d, Value: v})
	}
	return out, len(raw) - len(out)
}

// ParseValue parses a string-encoded NAV. It accepts only finite values > 0.
func ParseValue(s string) (float64, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) || f <= 0 {
		return 0, false
	}
	return f, true
}

// Filter selects the points inside the window and returns them oldest first.
// Points are compared at day granularity; today is supplied by the caller.
func Filter(points []Point, w Window, today CalendarDate) []Point {
	cutoff, bounded := w.Cutoff(today)

	out := make([]Point, 0, len(points))
	for _, p := range points {
		if bounded && p.Date.Before(cutoff) {
			continue
		}
		out = append(out, p)
	}

	// Upstream is newest first.
	if !ascending(out) {
		reverse(out)
	}
	if !ascending(out) {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	}
	return out
}

func ascending(points []Point) bool {
	for i := 1; i < len(points); i++ {
		if points[i].Date.Before(points[i-1].Date) {
			return false
		}
	}
	return true
}

func reverse(points []Point) {
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
}

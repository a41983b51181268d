package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"FundLens/internal/services/navseries"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNotEnoughPoints is returned when a series cannot be drawn as a line.
var ErrNotEnoughPoints = errors.New("chart: at least two points are required")

var (
	upColor   = drawing.ColorFromHex("2e7d32")
	downColor = drawing.ColorFromHex("c62828")
)

// Options controls the rendered image.
type Options struct {
	Title  string
	Width  int
	Height int
}

// RenderNAV draws an ascending NAV series as a PNG line chart. The line is
// green when the window closed at or above its start and red otherwise.
func RenderNAV(w io.Writer, points []navseries.Point, opts Options) error {
	if len(points) < 2 {
		return ErrNotEnoughPoints
	}

	xs := make([]time.Time, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Date.Time()
		ys[i] = p.Value
	}

	col := upColor
	if ys[len(ys)-1] < ys[0] {
		col = downColor
	}

	ch := gochart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeValueFormatterWithFormat(dateFormat(points)),
		},
		YAxis: gochart.YAxis{
			Name:           "NAV",
			ValueFormatter: func(v interface{}) string {
				return gochart.FloatValueFormatterWithFormat(v, "%.2f")
			},
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    "NAV",
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: col,
					StrokeWidth: 2,
					FillColor:   col.WithAlpha(40),
				},
			},
		},
	}

	if lo, hi := bounds(ys); lo == hi {
		// A flat line has no y range to scale against.
		ch.YAxis.Range = &gochart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}

	var buf bytes.Buffer
	if err := ch.Render(gochart.PNG, &buf); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Title builds the chart title for a scheme and window.
func Title(schemeName string, w navseries.Window) string {
	return fmt.Sprintf("%s (%s)", schemeName, w.Label())
}

func dateFormat(points []navseries.Point) string {
	span := points[len(points)-1].Date.Time().Sub(points[0].Date.Time())
	if span > 2*365*24*time.Hour {
		return "Jan 2006"
	}
	return "02 Jan 06"
}

func bounds(ys []float64) (float64, float64) {
	lo, hi := ys[0], ys[0]
	for _, y := range ys[1:] {
		if y < lo {
			lo = y
		}
		if y > hi {
			hi = y
		}
	}
	return lo, hi
}

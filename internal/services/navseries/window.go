package navseries

import "strings"

// Window names a trailing span of a NAV series.
type Window string

const (
	Window1M  Window = "1M"
	Window3M  Window = "3M"
	Window6M  Window = "6M"
	Window1Y  Window = "1Y"
	Window3Y  Window = "3Y"
	Window5Y  Window = "5Y"
	WindowAll Window = "ALL"
)

// WindowOption describes a selectable window.
type WindowOption struct {
	Value  Window `json:"value"`
	Label  string `json:"label"`
	Months int    `json:"months,omitempty"`
}

var windowOptions = []WindowOption{
	{Value: Window1M, Label: "1 Month", Months: 1},
	{Value: Window3M, Label: "3 Months", Months: 3},
	{Value: Window6M, Label: "6 Months", Months: 6},
	{Value: Window1Y, Label: "1 Year", Months: 12},
	{Value: Window3Y, Label: "3 Years", Months: 36},
	{Value: Window5Y, Label: "5 Years", Months: 60},
	{Value: WindowAll, Label: "All Time"},
}

// WindowOptions returns the selectable windows in display order.
func WindowOptions() []WindowOption {
	out := make([]WindowOption, len(windowOptions))
	copy(out, windowOptions)
	return out
}

// DefaultWindow is the window selected when none is given.
func DefaultWindow() Window { return Window1Y }

// ParseWindow resolves a window code case-insensitively. An empty string
// yields the default window.
func ParseWindow(s string) (Window, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultWindow(), true
	}
	w := Window(strings.ToUpper(s))
	if _, ok := w.option(); ok {
		return w, true
	}
	return "", false
}

// Months returns the month offset of the window; 0 means no lower bound.
func (w Window) Months() int {
	opt, _ := w.option()
	return opt.Months
}

// Label returns the display label of the window.
func (w Window) Label() string {
	opt, ok := w.option()
	if !ok {
		return string(w)
	}
	return opt.Label
}

// Bounded reports whether the window has a lower bound.
func (w Window) Bounded() bool { return w.Months() > 0 }

// Cutoff returns the earliest date included by the window relative to today.
// The second result is false for unbounded windows.
func (w Window) Cutoff(today CalendarDate) (CalendarDate, bool) {
	m := w.Months()
	if m <= 0 {
		return CalendarDate{}, false
	}
	return today.AddMonths(-m), true
}

func (w Window) option() (WindowOption, bool) {
	for _, o := range windowOptions {
		if o.Value == w {
			return o, true
		}
	}
	return WindowOption{}, false
}

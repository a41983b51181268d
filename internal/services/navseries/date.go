package navseries

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CalendarDate is a year/month/day with no time-of-day component.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewCalendarDate builds a CalendarDate without validating it.
func NewCalendarDate(year int, month time.Month, day int) CalendarDate {
	return CalendarDate{Year: year, Month: month, Day: day}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC of the date.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddMonths shifts the date by n months, normalizing day overflow the way
// calendar arithmetic does (31 May - 3 months = 3 March).
func (d CalendarDate) AddMonths(n int) CalendarDate {
	return DateOf(d.Time().AddDate(0, n, 0))
}

// Before reports whether d is strictly earlier than o.
func (d CalendarDate) Before(o CalendarDate) bool {
	return d.Time().Before(o.Time())
}

// IsZero reports whether d is the zero value.
func (d CalendarDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// String formats the date as DD-MM-YYYY, the upstream wire format.
func (d CalendarDate) String() string {
	return fmt.Sprintf("%02d-%02d-%04d", d.Day, int(d.Month), d.Year)
}

// ISO formats the date as YYYY-MM-DD.
func (d CalendarDate) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// genericLayouts are tried against the raw string when the DD-MM-YYYY path fails.
var genericLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC822,
	time.RFC822Z,
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"Mon Jan 2 2006",
}

// slashLayouts are tried after every '-' has been replaced with '/'.
// Slashed numeric dates read month first.
var slashLayouts = []string{
	"2006/1/2",
	"1/2/2006",
	"02/Jan/2006",
}

// ParseDate normalizes a raw upstream date into a calendar date.
// The DD-MM-YYYY form wins when its components round-trip exactly; otherwise
// generic layouts are tried, then the same string with '-' replaced by '/'.
func ParseDate(raw string) (CalendarDate, bool) {
	if d, ok := parseDayMonthYear(raw); ok {
		return d, true
	}
	if d, ok := parseLayouts(raw, genericLayouts); ok {
		return d, true
	}
	return parseLayouts(strings.ReplaceAll(raw, "-", "/"), slashLayouts)
}

// parseDayMonthYear requires each part to be a whole integer, so trailing
// text such as a time of day ("15-03-2024 00:00:00") is not accepted here.
func parseDayMonthYear(raw string) (CalendarDate, bool) {
	parts := strings.Split(raw, "-")
	if len(parts) != 3 {
		return CalendarDate{}, false
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return CalendarDate{}, false
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return CalendarDate{}, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil || year < 100 {
		// two-digit years are century-shifted and never round-trip
		return CalendarDate{}, false
	}

	// time.Date normalizes out-of-range values; reject anything that moved.
	got := DateOf(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC))
	if got.Day != day || int(got.Month) != month || got.Year != year {
		return CalendarDate{}, false
	}
	return got, true
}

func parseLayouts(raw string, layouts []string) (CalendarDate, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return CalendarDate{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), true
		}
	}
	return CalendarDate{}, false
}

package navseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want CalendarDate
		ok   bool
	}{
		{name: "upstream format", raw: "15-03-2024", want: NewCalendarDate(2024, time.March, 15), ok: true},
		{name: "single digit parts", raw: "1-1-2024", want: NewCalendarDate(2024, time.January, 1), ok: true},
		{name: "leap day", raw: "29-02-2024", want: NewCalendarDate(2024, time.February, 29), ok: true},
		{name: "iso date", raw: "2024-03-15", want: NewCalendarDate(2024, time.March, 15), ok: true},
		{name: "rfc3339 keeps own offset", raw: "2024-03-15T23:30:00+05:30", want: NewCalendarDate(2024, time.March, 15), ok: true},
		{name: "month name", raw: "Mar 15, 2024", want: NewCalendarDate(2024, time.March, 15), ok: true},
		{name: "day month name", raw: "15-Mar-2024", want: NewCalendarDate(2024, time.March, 15), ok: true},
		{name: "slashed iso", raw: "2024/03/15", want: NewCalendarDate(2024, time.March, 15), ok: true},
		{name: "slashed us order", raw: "03/15/2024", want: NewCalendarDate(2024, time.March, 15), ok: true},
		{name: "year first with short parts", raw: "2024-3-5", want: NewCalendarDate(2024, time.March, 5), ok: true},
		{name: "impossible day", raw: "31-02-2024", ok: false},
		{name: "not a leap year", raw: "29-02-2023", ok: false},
		{name: "day 31 in 30 day month", raw: "31-04-2024", ok: false},
		{name: "month out of range", raw: "15-13-2024", ok: false},
		{name: "two digit year", raw: "01-01-24", ok: false},
		{name: "empty", raw: "", ok: false},
		{name: "garbage", raw: "not a date", ok: false},
		{name: "day month year with time of day", raw: "15-03-2024 00:00:00", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseDate(tc.raw)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestParseDateNeverRollsOver(t *testing.T) {
	for _, raw := range []string{"31-02-2024", "30-02-2024", "31-06-2024", "31-09-2023", "31-11-2023"} {
		got, ok := ParseDate(raw)
		if ok {
			// Any accepted result must still carry the written day and month.
			assert.Equal(t, raw[:5], got.String()[:5], "rolled over %q to %s", raw, got)
		}
	}
	got, _ := ParseDate("31-02-2024")
	assert.NotEqual(t, NewCalendarDate(2024, time.March, 2), got)
}

func TestParseDateRoundTrip(t *testing.T) {
	start := NewCalendarDate(2023, time.January, 1)
	for i := 0; i < 800; i++ {
		d := DateOf(start.Time().AddDate(0, 0, i))
		got, ok := ParseDate(d.String())
		if !ok {
			t.Fatalf("expected %s to parse", d)
		}
		if got != d {
			t.Fatalf("round trip %s gave %s", d, got)
		}
	}
}

func TestCalendarDateAddMonths(t *testing.T) {
	d := NewCalendarDate(2024, time.May, 31)
	assert.Equal(t, NewCalendarDate(2024, time.March, 2), d.AddMonths(-3))
	assert.Equal(t, NewCalendarDate(2023, time.May, 31), d.AddMonths(-12))
	assert.Equal(t, NewCalendarDate(2024, time.April, 30), NewCalendarDate(2024, time.July, 30).AddMonths(-3))
}

func TestCalendarDateFormatting(t *testing.T) {
	d := NewCalendarDate(2024, time.March, 5)
	assert.Equal(t, "05-03-2024", d.String())
	assert.Equal(t, "2024-03-05", d.ISO())
	assert.True(t, CalendarDate{}.IsZero())
	assert.True(t, d.Before(NewCalendarDate(2024, time.March, 6)))
	assert.False(t, d.Before(d))
}

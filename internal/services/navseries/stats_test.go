package navseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(y int, m time.Month, d int, v float64) Point {
	return Point{Date: NewCalendarDate(y, m, d), Value: v}
}

func TestComputeNeedsTwoPoints(t *testing.T) {
	assert.Nil(t, Compute(nil))
	assert.Nil(t, Compute([]Point{pt(2024, time.January, 1, 10)}))
}

func TestComputeShortSpan(t *testing.T) {
	stats := Compute([]Point{
		pt(2024, time.January, 1, 100),
		pt(2024, time.March, 1, 95),
		pt(2024, time.July, 1, 90),
	})
	require.NotNil(t, stats)

	assert.InDelta(t, -10.0, stats.Change, 1e-9)
	assert.Equal(t, -10.0, stats.ChangePercent)
	assert.Equal(t, 0.5, stats.PeriodYears)
	assert.Equal(t, -20.07, stats.AnnualizedReturn)
	assert.Equal(t, 90.0, stats.LatestNAV)
	assert.False(t, stats.IsPositive)
	assert.False(t, stats.IsAnnualizedPositive)
}

func TestComputeLongSpanUsesCAGR(t *testing.T) {
	stats := Compute([]Point{
		pt(2021, time.January, 1, 100),
		pt(2023, time.January, 1, 121),
	})
	require.NotNil(t, stats)

	assert.Equal(t, 21.0, stats.ChangePercent)
	assert.Equal(t, 2.0, stats.PeriodYears)
	assert.InDelta(t, 10.0, stats.AnnualizedReturn, 0.05)
	assert.True(t, stats.IsPositive)
	assert.True(t, stats.IsAnnualizedPositive)
}

func TestComputeFlatSeries(t *testing.T) {
	stats := Compute([]Point{
		pt(2024, time.January, 1, 50),
		pt(2024, time.February, 1, 50),
	})
	require.NotNil(t, stats)
	assert.Equal(t, 0.0, stats.Change)
	assert.Equal(t, 0.0, stats.ChangePercent)
	assert.Equal(t, 0.0, stats.AnnualizedReturn)
	assert.True(t, stats.IsPositive)
	assert.True(t, stats.IsAnnualizedPositive)
}

func TestComputeSameDay(t *testing.T) {
	stats := Compute([]Point{
		pt(2024, time.January, 1, 50),
		pt(2024, time.January, 1, 55),
	})
	require.NotNil(t, stats)
	assert.Equal(t, 10.0, stats.ChangePercent)
	assert.Equal(t, 0.0, stats.PeriodYears)
	assert.Equal(t, 0.0, stats.AnnualizedReturn)
}

func TestComputeRoundsPercent(t *testing.T) {
	stats := Compute([]Point{
		pt(2024, time.January, 1, 100),
		pt(2024, time.January, 2, 100.123),
	})
	require.NotNil(t, stats)
	assert.Equal(t, 0.12, stats.ChangePercent)
	assert.InDelta(t, 0.123, stats.Change, 1e-9)
}

func TestAnnualizedReturn(t *testing.T) {
	assert.InDelta(t, 10.0, AnnualizedReturn(100, 121, 21, 2), 1e-9)
	assert.InDelta(t, 10.0, AnnualizedReturn(100, 105, 5, 0.5), 1e-9)
	assert.InDelta(t, 5.0, AnnualizedReturn(100, 105, 5, 1), 1e-9)
	assert.Equal(t, 0.0, AnnualizedReturn(100, 105, 5, 0))
	assert.Equal(t, 0.0, AnnualizedReturn(100, 105, 5, -1))
}

func TestElapsedYears(t *testing.T) {
	from := NewCalendarDate(2024, time.January, 1)
	assert.Equal(t, 0.0, ElapsedYears(from, from))
	assert.InDelta(t, 366/365.25, ElapsedYears(from, NewCalendarDate(2025, time.January, 1)), 1e-12)
	assert.Less(t, ElapsedYears(NewCalendarDate(2025, time.January, 1), from), 0.0)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.24, Round2(1.2351))
	assert.Equal(t, -20.07, Round2(-20.068))
	assert.Equal(t, 3.0, Round2(3))
}

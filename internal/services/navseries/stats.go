package navseries

import "math"

// msPerYear uses the average Gregorian year length.
const msPerYear = 1000 * 60 * 60 * 24 * 365.25

// PerformanceStats summarizes an ascending series.
type PerformanceStats struct {
	Change               float64 `json:"change"`
	ChangePercent        float64 `json:"change_percent"`
	AnnualizedReturn     float64 `json:"annualized_return"`
	PeriodYears          float64 `json:"period_years"`
	LatestNAV            float64 `json:"latest_nav"`
	IsPositive           bool    `json:"is_positive"`
	IsAnnualizedPositive bool    `json:"is_annualized_positive"`
}

// Compute returns statistics for an ascending series, or nil when fewer than
// two points are available.
func Compute(points []Point) *PerformanceStats {
	if len(points) < 2 {
		return nil
	}
	first, last := points[0], points[len(points)-1]

	change := last.Value - first.Value
	changePercent := change / first.Value * 100
	years := ElapsedYears(first.Date, last.Date)
	annualized := AnnualizedReturn(first.Value, last.Value, changePercent, years)

	return &PerformanceStats{
		Change:               change,
		ChangePercent:        Round2(changePercent),
		AnnualizedReturn:     Round2(annualized),
		PeriodYears:          Round2(years),
		LatestNAV:            last.Value,
		IsPositive:           change >= 0,
		IsAnnualizedPositive: annualized >= 0,
	}
}

// ElapsedYears measures the span between two dates in average years.
func ElapsedYears(from, to CalendarDate) float64 {
	ms := to.Time().Sub(from.Time()).Milliseconds()
	return float64(ms) / msPerYear
}

// AnnualizedReturn converts a period return into a yearly rate, in percent.
// Spans of a year or more use CAGR; shorter spans scale the simple return
// linearly; empty or inverted spans yield 0. The two formulas do not agree at
// exactly one year.
func AnnualizedReturn(oldest, latest, changePercent, years float64) float64 {
	switch {
	case years <= 0:
		return 0
	case years >= 1:
		return (math.Pow(latest/oldest, 1/years) - 1) * 100
	default:
		return changePercent / years
	}
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

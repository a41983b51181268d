package models

// NavSample is one upstream observation. Both fields are kept as received.
type NavSample struct {
	Date string `json:"date"`
	NAV  string `json:"nav"`
}

// FundMeta describes a scheme.
type FundMeta struct {
	FundHouse      string `json:"fund_house"`
	SchemeType     string `json:"scheme_type"`
	SchemeCategory string `json:"scheme_category"`
	SchemeCode     int    `json:"scheme_code"`
	SchemeName     string `json:"scheme_name"`
}

// FundDetails is a scheme with its NAV history, newest first.
type FundDetails struct {
	Meta FundMeta    `json:"meta"`
	Data []NavSample `json:"data"`
}

// SchemeSummary is one row of the scheme catalog.
type SchemeSummary struct {
	SchemeCode          int     `json:"schemeCode"`
	SchemeName          string  `json:"schemeName"`
	ISINGrowth          *string `json:"isinGrowth"`
	ISINDivReinvestment *string `json:"isinDivReinvestment"`
}

// FundType is a coarse classification derived from a scheme name.
type FundType string

const (
	FundTypeEquity FundType = "Equity"
	FundTypeDebt   FundType = "Debt"
	FundTypeHybrid FundType = "Hybrid"
	FundTypeIndex  FundType = "Index"
	FundTypeELSS   FundType = "ELSS"
	FundTypeLiquid FundType = "Liquid"
	FundTypeOther  FundType = "Other"
)

// NavRecord is a validated NAV point ready for archiving.
type NavRecord struct {
	SchemeCode int     `json:"scheme_code"`
	Date       string  `json:"date"` // YYYY-MM-DD
	NAV        float64 `json:"nav"`
}

// NavSnapshot is the archive payload for one fetch of a scheme.
type NavSnapshot struct {
	Meta      FundMeta    `json:"meta"`
	FetchedAt int64       `json:"fetched_at"`
	Records   []NavRecord `json:"records"`
}

package usecase

import (
	"strings"

	"FundLens/internal/domain/models"
)

var fundTypeRules = []struct {
	kind     models.FundType
	keywords []string
}{
	{models.FundTypeEquity, []string{"equity", "stock"}},
	{models.FundTypeDebt, []string{"debt", "bond", "gilt"}},
	{models.FundTypeHybrid, []string{"hybrid", "balanced"}},
	{models.FundTypeIndex, []string{"index", "etf"}},
	{models.FundTypeELSS, []string{"elss", "tax saver"}},
	{models.FundTypeLiquid, []string{"liquid", "money market"}},
}

// ClassifyScheme derives a coarse fund type from a scheme name. Rules are
// checked in order and the first match wins.
func ClassifyScheme(name string) models.FundType {
	n := strings.ToLower(name)
	for _, rule := range fundTypeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(n, kw) {
				return rule.kind
			}
		}
	}
	return models.FundTypeOther
}

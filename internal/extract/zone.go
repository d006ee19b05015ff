package extract

import (
	"strings"

	"github.com/joseph-ayodele/scanrename/constants"
	"github.com/joseph-ayodele/scanrename/internal/entity"
	"github.com/joseph-ayodele/scanrename/internal/heuristics"
)

// Classify decides between a standard letter and a short-form statement.
// It never fails; an unknown height counts as Standard unless a banking keyword matches.
func Classify(page entity.Page, cfg heuristics.Config) constants.Zone {
	if page.Height > 0 && page.Height < cfg.Px(cfg.ShortFormMaxHeightCM, page.DPI) {
		return constants.ZoneShortForm
	}
	if hasBankingKeyword(page.Text(), cfg.BankingKeywords) {
		return constants.ZoneShortForm
	}
	return constants.ZoneStandard
}

func hasBankingKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

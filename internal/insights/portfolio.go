package insights

import (
	"math"
	"sort"
	"strings"

	"github.com/EasterCompany/dex-sprint-service/types"
)

const (
	topLanguageLimit = 5
	languageWeight   = 1.0
	topicWeight      = 0.2
)

// SummarizePortfolio totals stars and ranks languages and topics.
// A primary language weighs 1.0 per item and each topic 0.2; topics are
// keyed with a "#" prefix so they never collide with a language name.
func SummarizePortfolio(items []types.PortfolioItem) types.PortfolioSummary {
	summary := types.PortfolioSummary{TopLanguages: []types.LanguageCount{}}
	if len(items) == 0 {
		return summary
	}

	type weighted struct {
		key    string
		weight float64
	}
	var ranking []*weighted
	index := make(map[string]*weighted)
	add := func(key string, w float64) {
		if entry, ok := index[key]; ok {
			entry.weight += w
			return
		}
		entry := &weighted{key: key, weight: w}
		index[key] = entry
		ranking = append(ranking, entry)
	}

	for _, item := range items {
		if item.Stars > 0 {
			summary.TotalStars += item.Stars
		}
		if lang := strings.TrimSpace(item.Language); lang != "" {
			add(lang, languageWeight)
		}
		for _, topic := range item.Topics {
			if topic = strings.TrimSpace(topic); topic != "" {
				add("#"+topic, topicWeight)
			}
		}
	}
	summary.TotalItems = len(items)

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].weight > ranking[j].weight
	})
	if len(ranking) > topLanguageLimit {
		ranking = ranking[:topLanguageLimit]
	}
	for _, entry := range ranking {
		summary.TopLanguages = append(summary.TopLanguages, types.LanguageCount{
			Language: entry.key,
			Count:    int(math.Round(entry.weight)),
		})
	}
	return summary
}

package recommend

import (
	"fmt"
	"sort"
	"strings"

	"btoolme/internal/catalog"
)

type match struct {
	score  float64
	reason string
}

type rule func(p profileIndex, tool catalog.Tool) []match

// rules run in this order; it fixes the order of reasons for every tool.
var rules = []rule{
	budgetRule,
	featureRule,
	industryRule,
	sizeRule,
}

// Recommend scores every tool in catalog order against the profile and returns
// the tools with a positive score, best first. Ties keep catalog order.
func Recommend(profile Profile, tools []catalog.Tool) []Recommendation {
	idx := indexProfile(profile)
	out := make([]Recommendation, 0, len(tools))
	for _, tool := range tools {
		gate, ok := categoryRule(idx, tool)
		if !ok {
			continue
		}
		matches := []match{gate}
		for _, r := range rules {
			matches = append(matches, r(idx, tool)...)
		}

		rec := Recommendation{Tool: tool, Reasons: make([]string, 0, len(matches))}
		for _, m := range matches {
			rec.Score += m.score
			rec.Reasons = append(rec.Reasons, m.reason)
		}
		if rec.Score <= 0 || len(rec.Reasons) == 0 {
			continue
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

type profileIndex struct {
	profile  Profile
	needs    map[catalog.Category]bool
	features map[string]bool
	industry string
	size     string
}

func indexProfile(p Profile) profileIndex {
	idx := profileIndex{
		profile:  p,
		needs:    make(map[catalog.Category]bool, len(p.Needs)),
		features: make(map[string]bool, len(p.Features)),
		industry: normalize(p.Industry),
		size:     normalize(p.BusinessSize),
	}
	for _, n := range p.Needs {
		idx.needs[n] = true
	}
	for _, f := range p.Features {
		if key := normalize(f); key != "" {
			idx.features[key] = true
		}
	}
	return idx
}

// categoryRule gates the tool: a tool outside the requested categories is not a candidate.
func categoryRule(p profileIndex, tool catalog.Tool) (match, bool) {
	if !p.needs[tool.Category] {
		return match{}, false
	}
	return match{
		score:  WeightCategory,
		reason: fmt.Sprintf("Covers your %s needs", tool.Category.Label()),
	}, true
}

func budgetRule(p profileIndex, tool catalog.Tool) []match {
	lowest, ok := tool.LowestTier()
	if !ok || p.profile.Budget.Rank() < 0 {
		return nil
	}
	if lowest.Rank() > p.profile.Budget.Rank() {
		return nil
	}
	score := WeightBudget
	if lowest == p.profile.Budget {
		score += WeightBudgetFit
	}
	return []match{{
		score:  score,
		reason: fmt.Sprintf("Fits your %s budget (plans from %s)", p.profile.Budget, lowest),
	}}
}

func featureRule(p profileIndex, tool catalog.Tool) []match {
	var out []match
	for _, f := range tool.Features {
		if !p.features[normalize(f)] {
			continue
		}
		out = append(out, match{
			score:  WeightFeature,
			reason: "Supports " + humanize(f),
		})
	}
	return out
}

func industryRule(p profileIndex, tool catalog.Tool) []match {
	if p.industry == "" || !containsNormalized(tool.Industries, p.industry) {
		return nil
	}
	return []match{{
		score:  WeightIndustry,
		reason: fmt.Sprintf("Popular with %s businesses", p.industry),
	}}
}

func sizeRule(p profileIndex, tool catalog.Tool) []match {
	if p.size == "" || !containsNormalized(tool.BusinessSizes, p.size) {
		return nil
	}
	return []match{{
		score:  WeightSize,
		reason: fmt.Sprintf("Suited to %s teams", p.size),
	}}
}

func containsNormalized(values []string, want string) bool {
	for _, v := range values {
		if normalize(v) == want {
			return true
		}
	}
	return false
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func humanize(tag string) string {
	return strings.ReplaceAll(strings.TrimSpace(tag), "-", " ")
}

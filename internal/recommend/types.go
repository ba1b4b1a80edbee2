package recommend

import "btoolme/internal/catalog"

// Recommendation is a scored, reason-annotated catalog tool.
type Recommendation struct {
	Tool    catalog.Tool `json:"tool"`
	Score   float64      `json:"score"`
	Reasons []string     `json:"reasons"`
}

// Profile is the validated business profile the engine scores against.
type Profile struct {
	BusinessSize string
	Industry     string
	Needs        []catalog.Category
	Budget       catalog.PricingTier
	Features     []string
}

// Scoring weights per matched criterion. WeightBudgetFit exceeds
// WeightIndustry+WeightSize so an exact budget fit outranks a cheaper tool
// that only wins on profile tags.
const (
	WeightCategory  = 5.0
	WeightBudget    = 3.0
	WeightBudgetFit = 4.0
	WeightFeature   = 2.0
	WeightIndustry  = 2.0
	WeightSize      = 1.0
)

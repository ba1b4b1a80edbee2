package catalog

import "strings"

// Category is one of the fixed tool categories.
type Category string

const (
	CategoryAccounting        Category = "accounting"
	CategoryCRM               Category = "crm"
	CategoryMarketing         Category = "marketing"
	CategoryProjectManagement Category = "project-management"
	CategoryCommunication     Category = "communication"
	CategoryHR                Category = "hr"
	CategoryEcommerce         Category = "ecommerce"
	CategoryAnalytics         Category = "analytics"
)

var categoryLabels = map[Category]string{
	CategoryAccounting:        "accounting",
	CategoryCRM:               "customer relationship",
	CategoryMarketing:         "marketing",
	CategoryProjectManagement: "project management",
	CategoryCommunication:     "team communication",
	CategoryHR:                "HR and payroll",
	CategoryEcommerce:         "e-commerce",
	CategoryAnalytics:         "analytics",
}

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryAccounting,
		CategoryCRM,
		CategoryMarketing,
		CategoryProjectManagement,
		CategoryCommunication,
		CategoryHR,
		CategoryEcommerce,
		CategoryAnalytics,
	}
}

// ParseCategory normalizes raw into a known category.
func ParseCategory(raw string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := categoryLabels[c]
	return c, ok
}

// Label is the human-readable name used in recommendation reasons.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// PricingTier is an ordered price band: free < low < medium < high.
type PricingTier string

const (
	TierFree   PricingTier = "free"
	TierLow    PricingTier = "low"
	TierMedium PricingTier = "medium"
	TierHigh   PricingTier = "high"
)

var tierRanks = map[PricingTier]int{
	TierFree:   0,
	TierLow:    1,
	TierMedium: 2,
	TierHigh:   3,
}

// Tiers returns every pricing tier in ascending order.
func Tiers() []PricingTier {
	return []PricingTier{TierFree, TierLow, TierMedium, TierHigh}
}

// ParseTier normalizes raw into a known tier.
func ParseTier(raw string) (PricingTier, bool) {
	t := PricingTier(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := tierRanks[t]
	return t, ok
}

// Rank orders tiers; unknown tiers rank below free.
func (t PricingTier) Rank() int {
	if r, ok := tierRanks[t]; ok {
		return r
	}
	return -1
}

// Tool is an immutable catalog entry.
type Tool struct {
	ID            string        `json:"id" yaml:"id"`
	Name          string        `json:"name" yaml:"name"`
	Category      Category      `json:"category" yaml:"category"`
	Description   string        `json:"description" yaml:"description"`
	Website       string        `json:"website" yaml:"website"`
	Features      []string      `json:"features" yaml:"features"`
	Pricing       []PricingTier `json:"pricing" yaml:"pricing"`
	Industries    []string      `json:"industries,omitempty" yaml:"industries"`
	BusinessSizes []string      `json:"businessSizes,omitempty" yaml:"businessSizes"`
}

// LowestTier returns the cheapest tier the tool offers.
func (t Tool) LowestTier() (PricingTier, bool) {
	if len(t.Pricing) == 0 {
		return "", false
	}
	return t.Pricing[0], true
}

package questionnaire

import (
	"strings"

	"btoolme/internal/catalog"
)

// QuestionType tells a client how to render a question.
type QuestionType string

const (
	TypeSingleChoice   QuestionType = "single_choice"
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeText           QuestionType = "text"
	TypeEmail          QuestionType = "email"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Question struct {
	ID       Field        `json:"id"`
	Prompt   string       `json:"prompt"`
	Type     QuestionType `json:"type"`
	Options  []Option     `json:"options,omitempty"`
	Required bool         `json:"required"`
}

var budgetLabels = map[catalog.PricingTier]string{
	catalog.TierFree:   "Free only",
	catalog.TierLow:    "Under $50/month",
	catalog.TierMedium: "$50-$200/month",
	catalog.TierHigh:   "$200+/month",
}

// Questions returns the questionnaire in the order it is asked.
// Feature options come from the catalog so they always match something scoreable.
func Questions(features []string) []Question {
	needs := make([]Option, 0, len(catalog.Categories()))
	for _, c := range catalog.Categories() {
		needs = append(needs, Option{Value: string(c), Label: capitalize(c.Label())})
	}
	budgets := make([]Option, 0, len(catalog.Tiers()))
	for _, t := range catalog.Tiers() {
		budgets = append(budgets, Option{Value: string(t), Label: budgetLabels[t]})
	}
	featureOpts := make([]Option, 0, len(features))
	for _, f := range features {
		featureOpts = append(featureOpts, Option{Value: f, Label: capitalize(strings.ReplaceAll(f, "-", " "))})
	}

	return []Question{
		{
			ID:     FieldBusinessSize,
			Prompt: "How big is your business?",
			Type:   TypeSingleChoice,
			Options: []Option{
				{Value: "solo", Label: "Just me"},
				{Value: "small", Label: "2-10 employees"},
				{Value: "medium", Label: "11-50 employees"},
				{Value: "large", Label: "More than 50 employees"},
			},
			Required: true,
		},
		{
			ID:     FieldIndustry,
			Prompt: "Which industry are you in?",
			Type:   TypeSingleChoice,
			Options: []Option{
				{Value: "retail", Label: "Retail"},
				{Value: "services", Label: "Professional services"},
				{Value: "technology", Label: "Technology"},
				{Value: "healthcare", Label: "Healthcare"},
				{Value: "manufacturing", Label: "Manufacturing"},
				{Value: "hospitality", Label: "Hospitality"},
				{Value: "other", Label: "Other"},
			},
			Required: true,
		},
		{
			ID:       FieldNeeds,
			Prompt:   "What do you need help with?",
			Type:     TypeMultipleChoice,
			Options:  needs,
			Required: true,
		},
		{
			ID:       FieldBudget,
			Prompt:   "What is your monthly budget per tool?",
			Type:     TypeSingleChoice,
			Options:  budgets,
			Required: true,
		},
		{
			ID:      FieldFeatures,
			Prompt:  "Any features you can't live without?",
			Type:    TypeMultipleChoice,
			Options: featureOpts,
		},
		{ID: FieldName, Prompt: "What's your name?", Type: TypeText, Required: true},
		{ID: FieldEmail, Prompt: "Where should we send your recommendations?", Type: TypeEmail, Required: true},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

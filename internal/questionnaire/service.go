package questionnaire

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"btoolme/internal/catalog"
	"btoolme/internal/recommend"
	"btoolme/internal/shared/apperr"
	"btoolme/internal/shared/metrics"
	"btoolme/internal/shared/telemetry"
)

// Service scores submitted answers against the startup catalog snapshot.
type Service struct {
	Catalog *catalog.Snapshot
	// Limit caps the number of recommendations returned; 0 means unlimited.
	Limit   int
	Metrics *metrics.Recorder
	Scorer  Scorer

	cache *lru.Cache[string, []recommend.Recommendation]
}

// NewService builds a Service with a memo cache of cacheSize entries.
// A cacheSize <= 0 disables memoization.
func NewService(snapshot *catalog.Snapshot, limit, cacheSize int, rec *metrics.Recorder) (*Service, error) {
	if limit < 0 {
		return nil, fmt.Errorf("recommendation limit must be >= 0, got %d", limit)
	}
	s := &Service{Catalog: snapshot, Limit: limit, Metrics: rec}
	if cacheSize > 0 {
		cache, err := lru.New[string, []recommend.Recommendation](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("recommendation cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Questions lists the questionnaire with feature options drawn from the catalog.
func (s *Service) Questions() []Question {
	var features []string
	if s.Catalog != nil {
		features = s.Catalog.Features()
	}
	return Questions(features)
}

// Recommend validates answers and returns the ranked, limited recommendations.
// Validation failures come back as apperr validation errors; scoring failures
// as apperr unexpected errors.
func (s *Service) Recommend(ctx context.Context, answers Answers) ([]recommend.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Catalog == nil {
		return nil, apperr.Unexpected(fmt.Errorf("catalog not loaded"))
	}
	answers = answers.Normalize()
	if err := answers.Validate(); err != nil {
		s.Metrics.ObserveRecommendations(0, err)
		return nil, err
	}

	key := answers.Fingerprint()
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			out := s.limit(cached)
			s.Metrics.ObserveRecommendations(len(out), nil)
			return out, nil
		}
	}

	flow := NewFlow(s.Catalog.Tools(), s.Scorer)
	_ = flow.Start()
	_ = flow.Fill(answers)
	recs, err := flow.Submit()
	if err != nil {
		s.Metrics.ObserveRecommendations(0, err)
		return nil, err
	}
	telemetry.Info("questionnaire.scored", map[string]any{
		"matches": len(recs),
		"needs":   answers.Needs,
		"budget":  answers.Budget,
	})
	if s.cache != nil {
		s.cache.Add(key, cloneRecommendations(recs))
	}
	out := s.limit(recs)
	s.Metrics.ObserveRecommendations(len(out), nil)
	return out, nil
}

func (s *Service) limit(recs []recommend.Recommendation) []recommend.Recommendation {
	n := len(recs)
	if s.Limit > 0 && n > s.Limit {
		n = s.Limit
	}
	return cloneRecommendations(recs[:n])
}

func cloneRecommendations(recs []recommend.Recommendation) []recommend.Recommendation {
	out := make([]recommend.Recommendation, len(recs))
	for i, r := range recs {
		r.Tool.Features = append(make([]string, 0, len(r.Tool.Features)), r.Tool.Features...)
		r.Tool.Pricing = append([]catalog.PricingTier(nil), r.Tool.Pricing...)
		r.Tool.Industries = append([]string(nil), r.Tool.Industries...)
		r.Tool.BusinessSizes = append([]string(nil), r.Tool.BusinessSizes...)
		r.Reasons = append([]string(nil), r.Reasons...)
		out[i] = r
	}
	return out
}

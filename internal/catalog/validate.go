package catalog

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the static catalog data for the invariants the scoring engine relies on.
func Validate(tools []Tool) error {
	seen := make(map[string]struct{}, len(tools))
	for i, tool := range tools {
		id := strings.TrimSpace(tool.ID)
		if id == "" {
			return fmt.Errorf("%w: tool #%d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate tool id %q", ErrInvalidCatalog, id)
		}
		seen[id] = struct{}{}

		if strings.TrimSpace(tool.Name) == "" {
			return fmt.Errorf("%w: tool %q has no name", ErrInvalidCatalog, id)
		}
		if _, ok := ParseCategory(string(tool.Category)); !ok {
			return fmt.Errorf("%w: tool %q has unknown category %q", ErrInvalidCatalog, id, tool.Category)
		}
		if u, err := url.Parse(tool.Website); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: tool %q has invalid website %q", ErrInvalidCatalog, id, tool.Website)
		}
		if len(tool.Pricing) == 0 {
			return fmt.Errorf("%w: tool %q has no pricing tiers", ErrInvalidCatalog, id)
		}
		prev := -1
		for _, tier := range tool.Pricing {
			rank := tier.Rank()
			if rank < 0 {
				return fmt.Errorf("%w: tool %q has unknown pricing tier %q", ErrInvalidCatalog, id, tier)
			}
			if rank <= prev {
				return fmt.Errorf("%w: tool %q pricing tiers must be ascending", ErrInvalidCatalog, id)
			}
			prev = rank
		}
	}
	return nil
}

package catalog

import "context"

// Repo reads catalog entries. Implementations are read-only at runtime.
type Repo interface {
	List(ctx context.Context) ([]Tool, error)
	GetByID(ctx context.Context, id string) (Tool, error)
}

// Snapshot is an immutable, ordered copy of the catalog taken once at startup.
type Snapshot struct {
	tools []Tool
	byID  map[string]int
}

// Load takes a snapshot of everything repo lists.
func Load(ctx context.Context, repo Repo) (*Snapshot, error) {
	tools, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := Validate(tools); err != nil {
		return nil, err
	}
	return NewSnapshot(tools), nil
}

// NewSnapshot copies tools into a snapshot without validating them.
func NewSnapshot(tools []Tool) *Snapshot {
	s := &Snapshot{
		tools: make([]Tool, len(tools)),
		byID:  make(map[string]int, len(tools)),
	}
	for i, t := range tools {
		s.tools[i] = cloneTool(t)
		s.byID[t.ID] = i
	}
	return s
}

// Tools returns a copy of the catalog in declared order.
func (s *Snapshot) Tools() []Tool {
	out := make([]Tool, len(s.tools))
	for i, t := range s.tools {
		out[i] = cloneTool(t)
	}
	return out
}

// Get returns the tool with the given id.
func (s *Snapshot) Get(id string) (Tool, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Tool{}, false
	}
	return cloneTool(s.tools[i]), true
}

// Features lists every distinct feature tag in catalog order.
func (s *Snapshot) Features() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range s.tools {
		for _, f := range t.Features {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}

// ByCategory returns the tools in category c, in catalog order.
func (s *Snapshot) ByCategory(c Category) []Tool {
	var out []Tool
	for _, t := range s.tools {
		if t.Category == c {
			out = append(out, cloneTool(t))
		}
	}
	return out
}

func cloneTool(t Tool) Tool {
	t.Features = append(make([]string, 0, len(t.Features)), t.Features...)
	t.Pricing = append([]PricingTier(nil), t.Pricing...)
	t.Industries = append([]string(nil), t.Industries...)
	t.BusinessSizes = append([]string(nil), t.BusinessSizes...)
	return t
}

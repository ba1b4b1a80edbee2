package catalog

import "context"

// MemoryRepo serves a fixed list of tools, normally the embedded catalog.
type MemoryRepo struct {
	tools []Tool
}

func NewMemoryRepo(tools []Tool) *MemoryRepo {
	return &MemoryRepo{tools: tools}
}

func (r *MemoryRepo) List(ctx context.Context) ([]Tool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Tool, len(r.tools))
	for i, t := range r.tools {
		out[i] = cloneTool(t)
	}
	return out, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Tool, error) {
	if err := ctx.Err(); err != nil {
		return Tool{}, err
	}
	for _, t := range r.tools {
		if t.ID == id {
			return cloneTool(t), nil
		}
	}
	return Tool{}, ErrNotFound
}

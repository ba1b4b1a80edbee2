package catalog

import (
	"bytes"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Default returns the embedded catalog. It panics if the embedded data is invalid,
// which can only happen with a bad build.
func Default() []Tool {
	tools, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded data: %v", err))
	}
	return tools
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) ([]Tool, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var tools []Tool
	if err := dec.Decode(&tools); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidCatalog, err)
	}
	for i := range tools {
		tools[i] = normalizeTool(tools[i])
	}
	if err := Validate(tools); err != nil {
		return nil, err
	}
	return tools, nil
}

func normalizeTool(t Tool) Tool {
	if c, ok := ParseCategory(string(t.Category)); ok {
		t.Category = c
	}
	for i, tier := range t.Pricing {
		if parsed, ok := ParseTier(string(tier)); ok {
			t.Pricing[i] = parsed
		}
	}
	if t.Features == nil {
		t.Features = []string{}
	}
	return t
}

package catalog

import "errors"

var (
	ErrNotFound        = errors.New("tool not found")
	ErrInvalidCatalog  = errors.New("invalid catalog")
	ErrUnknownCategory = errors.New("unknown category")
)

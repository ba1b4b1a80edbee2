package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo reads the tools table seeded at deploy time.
type PGRepo struct {
	DB *sql.DB
}

const selectTools = `
SELECT id, name, category, description, website, features, pricing, industries, business_sizes
FROM tools`

func (r *PGRepo) List(ctx context.Context) ([]Tool, error) {
	rows, err := r.DB.QueryContext(ctx, selectTools+`
ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Tool
	for rows.Next() {
		tool, err := scanTool(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tool)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Tool, error) {
	row := r.DB.QueryRowContext(ctx, selectTools+`
WHERE id = $1
LIMIT 1`, id)
	tool, err := scanTool(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tool{}, ErrNotFound
		}
		return Tool{}, err
	}
	return tool, nil
}

// Sync replaces the table contents with tools inside one transaction.
// It is called from the migrate command only; the API never writes.
func (r *PGRepo) Sync(ctx context.Context, tools []Tool) error {
	if err := Validate(tools); err != nil {
		return err
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tools`); err != nil {
		return fmt.Errorf("clear tools: %w", err)
	}
	const insert = `
INSERT INTO tools (id, position, name, category, description, website, features, pricing, industries, business_sizes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for i, t := range tools {
		features, err := json.Marshal(t.Features)
		if err != nil {
			return err
		}
		pricing, err := json.Marshal(t.Pricing)
		if err != nil {
			return err
		}
		industries, err := json.Marshal(nonNil(t.Industries))
		if err != nil {
			return err
		}
		sizes, err := json.Marshal(nonNil(t.BusinessSizes))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insert,
			t.ID,
			i,
			t.Name,
			string(t.Category),
			t.Description,
			t.Website,
			features,
			pricing,
			industries,
			sizes,
		); err != nil {
			return fmt.Errorf("insert tool %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTool(row rowScanner) (Tool, error) {
	var (
		tool       Tool
		category   string
		features   []byte
		pricing    []byte
		industries []byte
		sizes      []byte
	)
	if err := row.Scan(
		&tool.ID,
		&tool.Name,
		&category,
		&tool.Description,
		&tool.Website,
		&features,
		&pricing,
		&industries,
		&sizes,
	); err != nil {
		return Tool{}, err
	}
	tool.Category = Category(category)
	if err := decodeList(features, &tool.Features); err != nil {
		return Tool{}, fmt.Errorf("tool %s features: %w", tool.ID, err)
	}
	if err := decodeList(pricing, &tool.Pricing); err != nil {
		return Tool{}, fmt.Errorf("tool %s pricing: %w", tool.ID, err)
	}
	if err := decodeList(industries, &tool.Industries); err != nil {
		return Tool{}, fmt.Errorf("tool %s industries: %w", tool.ID, err)
	}
	if err := decodeList(sizes, &tool.BusinessSizes); err != nil {
		return Tool{}, fmt.Errorf("tool %s business sizes: %w", tool.ID, err)
	}
	return normalizeTool(tool), nil
}

func decodeList(raw []byte, dest any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

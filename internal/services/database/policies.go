package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"insurex/internal/models"
)

// PolicyRepository handles saved policy rule profiles.
type PolicyRepository struct {
	db *DB
}

// NewPolicyRepository creates a new policy repository.
func NewPolicyRepository(db *DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

// Save upserts a named policy rule profile so users can re-run analyses
// without re-entering their policy terms.
func (r *PolicyRepository) Save(ctx context.Context, name string, rules models.PolicyRules) error {
	doc, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("failed to marshal policy rules: %w", err)
	}

	query := `
		INSERT INTO policies (name, rules, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name)
		DO UPDATE SET rules = EXCLUDED.rules, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, name, doc); err != nil {
		return fmt.Errorf("failed to save policy: %w", err)
	}
	return nil
}

// GetByName retrieves a policy rule profile. Returns nil if not found.
func (r *PolicyRepository) GetByName(ctx context.Context, name string) (*models.PolicyRules, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, `SELECT rules FROM policies WHERE name = $1`, name).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}

	var rules models.PolicyRules
	if err := json.Unmarshal(doc, &rules); err != nil {
		return nil, fmt.Errorf("failed to unmarshal policy rules: %w", err)
	}
	return &rules, nil
}

// ListNames returns all saved policy profile names.
func (r *PolicyRepository) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM policies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan policy row: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

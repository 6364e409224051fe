package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"insurex/internal/models"
)

// AnalysisRepository handles saved-analysis database operations.
type AnalysisRepository struct {
	db *DB
}

// NewAnalysisRepository creates a new analysis repository.
func NewAnalysisRepository(db *DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save persists a coverage analysis and returns the stored record. The
// full analysis document is kept as JSONB alongside denormalized summary
// columns used for listing.
func (r *AnalysisRepository) Save(ctx context.Context, policyName string, analysis models.Analysis) (*models.SavedAnalysis, error) {
	doc, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis: %w", err)
	}

	saved := &models.SavedAnalysis{
		ID:            uuid.New().String(),
		PolicyName:    policyName,
		TotalBill:     analysis.Summary.TotalBill,
		OutOfPocket:   analysis.Summary.OutOfPocket,
		IsAIEstimated: analysis.Metadata.IsAIEstimated,
		Analysis:      analysis,
		CreatedAt:     time.Now().UTC(),
	}

	query := `
		INSERT INTO analyses (id, policy_name, total_bill, out_of_pocket, is_ai_estimated, analysis, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.ExecContext(ctx, query,
		saved.ID, saved.PolicyName, saved.TotalBill, saved.OutOfPocket,
		saved.IsAIEstimated, doc, saved.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}

	return saved, nil
}

// GetByID retrieves a saved analysis. Returns nil if not found.
func (r *AnalysisRepository) GetByID(ctx context.Context, id string) (*models.SavedAnalysis, error) {
	query := `
		SELECT id, policy_name, total_bill, out_of_pocket, is_ai_estimated, analysis, created_at
		FROM analyses
		WHERE id = $1`

	var saved models.SavedAnalysis
	var doc []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&saved.ID, &saved.PolicyName, &saved.TotalBill, &saved.OutOfPocket,
		&saved.IsAIEstimated, &doc, &saved.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	if err := json.Unmarshal(doc, &saved.Analysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}

	return &saved, nil
}

// ListRecent returns the most recent analyses, newest first. Only the
// summary columns are populated; the breakdown document is not loaded
// for listings.
func (r *AnalysisRepository) ListRecent(ctx context.Context, limit int) ([]models.SavedAnalysis, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `
		SELECT id, policy_name, total_bill, out_of_pocket, is_ai_estimated, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var results []models.SavedAnalysis
	for rows.Next() {
		var saved models.SavedAnalysis
		if err := rows.Scan(&saved.ID, &saved.PolicyName, &saved.TotalBill,
			&saved.OutOfPocket, &saved.IsAIEstimated, &saved.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		results = append(results, saved)
	}

	return results, rows.Err()
}

// Delete removes a saved analysis. Returns true if a row was deleted.
func (r *AnalysisRepository) Delete(ctx context.Context, id string) (bool, error) {
	affected, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete analysis: %w", err)
	}
	return affected > 0, nil
}

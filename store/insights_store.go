package store

import (
	"context"
	"database/sql"
	"fmt"

	"menuboard/api/models"
)

// InsightsStore persists generated reports, one row per user. A new report
// overwrites the previous one; no history is retained.
type InsightsStore struct {
	db *sql.DB
}

func NewInsightsStore(db *sql.DB) *InsightsStore {
	return &InsightsStore{db: db}
}

func (s *InsightsStore) UpsertInsights(ctx context.Context, row models.InsightsRow) error {
	query := `
		INSERT INTO menu_insights (user_id, insights, generated_at, confidence, data_quality, analysis_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			insights = EXCLUDED.insights,
			generated_at = EXCLUDED.generated_at,
			confidence = EXCLUDED.confidence,
			data_quality = EXCLUDED.data_quality,
			analysis_type = EXCLUDED.analysis_type;
	`
	_, err := s.db.ExecContext(ctx, query,
		row.UserID,
		[]byte(row.Insights),
		row.GeneratedAt,
		row.Confidence,
		row.DataQuality,
		row.AnalysisType,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert insights for user %s: %w", row.UserID, err)
	}
	return nil
}

// GetInsights returns the last stored report row for a user, or nil when no
// report has been generated yet.
func (s *InsightsStore) GetInsights(ctx context.Context, userID string) (*models.InsightsRow, error) {
	row := &models.InsightsRow{}
	query := `
		SELECT user_id, insights, generated_at, confidence, data_quality, analysis_type
		FROM menu_insights
		WHERE user_id = $1;
	`
	var insights []byte
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&row.UserID,
		&insights,
		&row.GeneratedAt,
		&row.Confidence,
		&row.DataQuality,
		&row.AnalysisType,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get insights for user %s: %w", userID, err)
	}
	row.Insights = insights
	return row, nil
}

package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"menuboard/api/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertInsights(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewInsightsStore(db)

	payload, _ := json.Marshal(map[string]string{"headline": "ok"})
	generatedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO menu_insights").
		WithArgs("user-1", payload, generatedAt, 0.9, "high", "standard").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = s.UpsertInsights(context.Background(), models.InsightsRow{
		UserID:       "user-1",
		Insights:     payload,
		GeneratedAt:  generatedAt,
		Confidence:   0.9,
		DataQuality:  "high",
		AnalysisType: "standard",
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertInsightsError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewInsightsStore(db)

	mock.ExpectExec("INSERT INTO menu_insights").
		WillReturnError(assert.AnError)

	err = s.UpsertInsights(context.Background(), models.InsightsRow{UserID: "user-1", Insights: []byte("{}")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user-1")
}

func TestGetInsights(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewInsightsStore(db)

	generatedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"user_id", "insights", "generated_at", "confidence", "data_quality", "analysis_type"}).
		AddRow("user-1", []byte(`{"userId":"user-1"}`), generatedAt, 0.9, "high", "standard")

	mock.ExpectQuery("SELECT user_id, insights, generated_at, confidence, data_quality, analysis_type").
		WithArgs("user-1").
		WillReturnRows(rows)

	row, err := s.GetInsights(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "user-1", row.UserID)
	assert.Equal(t, 0.9, row.Confidence)
	assert.Equal(t, "standard", row.AnalysisType)
	assert.JSONEq(t, `{"userId":"user-1"}`, string(row.Insights))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetInsightsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewInsightsStore(db)

	mock.ExpectQuery("SELECT user_id, insights, generated_at, confidence, data_quality, analysis_type").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "insights", "generated_at", "confidence", "data_quality", "analysis_type"}))

	row, err := s.GetInsights(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, row, "no report yet is not an error")
}

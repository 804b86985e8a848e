package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"menuboard/api/models"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// InsightsWriter persists generated reports; one row per user, overwritten
// on each generation.
type InsightsWriter interface {
	UpsertInsights(ctx context.Context, row models.InsightsRow) error
}

// InsightsGenerator turns an AnalyticsBundle into an InsightsReport. Every
// insight is a deterministic function of the bundle; the "AI" naming on the
// product side maps to fixed heuristics here, no models and no randomness.
type InsightsGenerator struct {
	store InsightsWriter
	cache *resultCache[*models.InsightsReport]
	now   func() time.Time
}

func NewInsightsGenerator(store InsightsWriter) *InsightsGenerator {
	return &InsightsGenerator{
		store: store,
		cache: newResultCache[*models.InsightsReport](insightsCacheTTL),
		now:   time.Now,
	}
}

// Generate computes the report for a bundle and persists it. When the
// persist fails the computed report is still returned alongside the error,
// so callers can distinguish "computed but not saved" from a full success
// and keep serving the in-memory result.
func (g *InsightsGenerator) Generate(ctx context.Context, bundle *models.AnalyticsBundle) (*models.InsightsReport, error) {
	key := cacheKey(bundle.Metadata.UserID, bundle.Metadata.Days)
	if cached, ok := g.cache.Get(key); ok {
		log.Printf("Insights cache hit for %s", key)
		return cached, nil
	}

	report := buildReport(bundle, g.now())
	g.cache.Set(key, report)

	if err := g.persist(ctx, report); err != nil {
		log.Printf("Failed to persist insights for user %s: %v", report.UserID, err)
		return report, err
	}
	return report, nil
}

func (g *InsightsGenerator) persist(ctx context.Context, report *models.InsightsReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal insights report: %w", err)
	}
	return g.store.UpsertInsights(ctx, models.InsightsRow{
		UserID:       report.UserID,
		Insights:     payload,
		GeneratedAt:  report.Metadata.GeneratedAt,
		Confidence:   report.Metadata.Confidence,
		DataQuality:  report.Metadata.DataQuality,
		AnalysisType: report.Metadata.AnalysisType,
	})
}

// buildReport assembles the six insight categories. They are pure functions
// of the already-resolved bundle, so they run concurrently without shared
// mutation.
func buildReport(bundle *models.AnalyticsBundle, generatedAt time.Time) *models.InsightsReport {
	report := &models.InsightsReport{
		UserID: bundle.Metadata.UserID,
	}

	g := new(errgroup.Group)
	g.Go(func() error {
		report.Performance = performanceInsights(bundle)
		return nil
	})
	g.Go(func() error {
		report.Behavioral = behavioralInsights(bundle)
		return nil
	})
	g.Go(func() error {
		report.Predictive = predictiveInsights(bundle)
		return nil
	})
	g.Go(func() error {
		report.Optimization = optimizationInsights(bundle)
		return nil
	})
	g.Go(func() error {
		report.Competitive = competitiveInsights(bundle)
		return nil
	})
	g.Go(func() error {
		report.Summary = summaryInsights(bundle)
		return nil
	})
	_ = g.Wait()

	total := totalEvents(bundle)
	report.Metadata = models.ReportMetadata{
		GeneratedAt:  generatedAt,
		Confidence:   confidenceScore(bundle),
		DataQuality:  bundle.Metadata.DataQuality.Overall,
		AnalysisType: recommendedAnalysis(total),
		WindowDays:   bundle.Metadata.Days,
		TotalEvents:  total,
	}
	return report
}

func totalEvents(bundle *models.AnalyticsBundle) int {
	s := bundle.Processed.Summary
	return s.TotalViews + s.TotalClicks
}

// confidenceScore starts at 0.5 and climbs with data volume and quality,
// clamped to 1.0.
func confidenceScore(bundle *models.AnalyticsBundle) float64 {
	total := totalEvents(bundle)
	score := 0.5
	if total >= minEventsForInsights {
		score += 0.2
	}
	if bundle.Metadata.DataQuality.Overall == "high" {
		score += 0.2
	}
	if total > 100 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return round2(score)
}

func recommendedAnalysis(total int) string {
	switch {
	case total < minEventsForInsights:
		return "basic"
	case total <= 100:
		return "standard"
	default:
		return "advanced"
	}
}

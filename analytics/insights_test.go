package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"menuboard/api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureInsightsWriter struct {
	rows []models.InsightsRow
	err  error
}

func (w *captureInsightsWriter) UpsertInsights(ctx context.Context, row models.InsightsRow) error {
	if w.err != nil {
		return w.err
	}
	w.rows = append(w.rows, row)
	return nil
}

// testBundle builds a bundle with the given non-bot view/click volume and a
// healthy session profile.
func testBundle(views, clicks int) *models.AnalyticsBundle {
	summary := models.Summary{
		TotalViews:       views,
		TotalClicks:      clicks,
		ClickThroughRate: clickThroughRate(clicks, views),
		TotalMenus:       1,
		ActiveMenus:      1,
	}
	return &models.AnalyticsBundle{
		User: &models.User{ID: "user-1"},
		Processed: models.ProcessedMetrics{
			Summary: summary,
			Sessions: models.SessionMetrics{
				TotalSessions: views / 2,
				BounceRate:    25,
			},
		},
		Metadata: models.BundleMetadata{
			UserID: "user-1",
			Days:   30,
			DataQuality: models.DataQuality{
				Overall: "medium",
			},
		},
	}
}

func TestPerformanceScoreComponents(t *testing.T) {
	// CTR 20 => +40, engagement high => +30, bounce 25 => +30.
	assert.Equal(t, 100, performanceScore(20, 25))
	// CTR 0 => +0, engagement minimal => +0, bounce 100 => +0.
	assert.Equal(t, 0, performanceScore(0, 100))
	// CTR 12 => +20, engagement low => +10, bounce 60 => +10.
	assert.Equal(t, 40, performanceScore(12, 60))
}

func TestPerformanceScoreMonotonicInCTR(t *testing.T) {
	prev := -1
	for _, ctr := range []float64{0, 4.99, 5, 9.99, 10, 14.99, 15, 19.99, 20, 50} {
		score := performanceScore(ctr, 40)
		assert.GreaterOrEqual(t, score, prev, "ctr=%v", ctr)
		prev = score
	}
}

func TestPerformanceScoreMonotonicInBounce(t *testing.T) {
	prev := 1000
	for _, bounce := range []float64{0, 30, 30.01, 50, 50.01, 70, 70.01, 100} {
		score := performanceScore(10, bounce)
		assert.LessOrEqual(t, score, prev, "bounce=%v", bounce)
		prev = score
	}
}

func TestScoreRating(t *testing.T) {
	assert.Equal(t, "excellent", scoreRating(80))
	assert.Equal(t, "good", scoreRating(60))
	assert.Equal(t, "average", scoreRating(40))
	assert.Equal(t, "needs-improvement", scoreRating(39))
}

func TestGrowthRateTiers(t *testing.T) {
	assert.Equal(t, 1.2, growthRate(15.01))
	assert.Equal(t, 1.1, growthRate(15))
	assert.Equal(t, 1.1, growthRate(10.01))
	assert.Equal(t, 1.05, growthRate(10))
	assert.Equal(t, 1.05, growthRate(0))
}

func TestPredictiveInsightsRevenue(t *testing.T) {
	bundle := testBundle(100, 20)
	price := 10.0
	bundle.MenuItems = []models.MenuItem{
		{Name: "Burger", Price: &price},
		{Name: "Market Fish"}, // unpriced, excluded from the average
	}

	p := predictiveInsights(bundle)

	assert.Equal(t, 1.2, p.GrowthRate)
	assert.Equal(t, 120, p.ProjectedViews)
	assert.Equal(t, 10.0, p.AverageItemPrice)
	assert.Equal(t, 60.0, p.CurrentRevenuePotential) // 20 * 10 * 0.3
	assert.Equal(t, 100.0, p.PotentialRevenueUplift) // 20 * 10 * 0.5
}

func TestAverageItemPriceDefaultsWhenUnpriced(t *testing.T) {
	assert.Equal(t, defaultItemPrice, averageItemPrice(nil))
	assert.Equal(t, defaultItemPrice, averageItemPrice([]models.MenuItem{{Name: "Market Fish"}}))
}

func TestOptimizationRecommendationsOrdering(t *testing.T) {
	recs := optimizationInsights(testBundle(100, 20)).Recommendations

	require.Len(t, recs, len(recommendationCandidates))
	// Highest priority first: high impact + low effort = 6.
	assert.Equal(t, "Feature your best sellers", recs[0].Title)
	assert.Equal(t, 6, recs[0].Priority)
	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Priority, recs[i].Priority)
	}
	// Ties keep the candidate list's insertion order.
	assert.Equal(t, "Add photos to quiet items", recs[1].Title)
	assert.Equal(t, "Promote around peak hours", recs[2].Title)
}

func TestCompetitiveInsightsWithSample(t *testing.T) {
	bundle := testBundle(100, 20)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 90; i++ {
		bundle.SampleData = append(bundle.SampleData, viewEvent("other", base, true))
	}
	for i := 0; i < 9; i++ {
		bundle.SampleData = append(bundle.SampleData, clickEvent("other", "X", base))
	}

	comp := competitiveInsights(bundle)

	assert.Equal(t, 10.0, comp.IndustryAvgCTR)
	assert.Equal(t, 20.0, comp.YourCTR)
	assert.Equal(t, "ahead of", comp.Position)
	assert.Equal(t, 99, comp.SampleSize)
}

func TestCompetitiveInsightsBaselineFallback(t *testing.T) {
	comp := competitiveInsights(testBundle(100, 20))
	assert.Equal(t, baselineIndustryCTR, comp.IndustryAvgCTR)
}

func TestConfidenceScoreRangeAndMonotonicity(t *testing.T) {
	cases := []struct {
		views   int
		clicks  int
		quality string
		want    float64
	}{
		{0, 0, "low", 0.5},
		{10, 0, "low", 0.7},
		{10, 0, "high", 0.9},
		{101, 0, "high", 1.0},
	}
	prev := 0.0
	for _, tc := range cases {
		bundle := testBundle(tc.views, tc.clicks)
		bundle.Metadata.DataQuality.Overall = tc.quality
		got := confidenceScore(bundle)
		assert.Equal(t, tc.want, got)
		assert.GreaterOrEqual(t, got, 0.5)
		assert.LessOrEqual(t, got, 1.0)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

func TestRecommendedAnalysisTiers(t *testing.T) {
	assert.Equal(t, "basic", recommendedAnalysis(9))
	assert.Equal(t, "standard", recommendedAnalysis(10))
	assert.Equal(t, "standard", recommendedAnalysis(100))
	assert.Equal(t, "advanced", recommendedAnalysis(101))
}

func TestBuildReportIdempotent(t *testing.T) {
	bundle := testBundle(100, 20)
	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	first := buildReport(bundle, at)
	second := buildReport(bundle, at)

	assert.Equal(t, first, second)
}

func TestBuildReportZeroEvents(t *testing.T) {
	bundle := testBundle(0, 0)
	bundle.Processed.Sessions = models.SessionMetrics{}

	report := buildReport(bundle, time.Now())

	assert.False(t, report.Summary.HasEnoughData)
	assert.Equal(t, "basic", report.Summary.RecommendedAnalysis)
	assert.Equal(t, "basic", report.Metadata.AnalysisType)
	assert.Equal(t, 0.0, report.Performance.CTR)
	assert.Equal(t, 0.5, report.Metadata.Confidence)
}

func TestGeneratePersistsAndCaches(t *testing.T) {
	writer := &captureInsightsWriter{}
	g := NewInsightsGenerator(writer)
	g.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	bundle := testBundle(100, 20)
	report, err := g.Generate(context.Background(), bundle)
	require.NoError(t, err)
	require.NotNil(t, report)
	require.Len(t, writer.rows, 1)

	// Second call is served from cache; nothing new is written.
	again, err := g.Generate(context.Background(), bundle)
	require.NoError(t, err)
	assert.Same(t, report, again)
	assert.Len(t, writer.rows, 1)
}

func TestGenerateReturnsReportOnPersistFailure(t *testing.T) {
	writer := &captureInsightsWriter{err: errors.New("insights table unavailable")}
	g := NewInsightsGenerator(writer)

	report, err := g.Generate(context.Background(), testBundle(100, 20))

	require.Error(t, err)
	require.NotNil(t, report, "computed report survives a persistence failure")
	assert.Equal(t, "user-1", report.UserID)
}

func TestPersistedRowRoundTrip(t *testing.T) {
	writer := &captureInsightsWriter{}
	g := NewInsightsGenerator(writer)
	g.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	report, err := g.Generate(context.Background(), testBundle(100, 20))
	require.NoError(t, err)
	require.Len(t, writer.rows, 1)

	row := writer.rows[0]
	assert.Equal(t, report.Metadata.Confidence, row.Confidence)
	assert.Equal(t, report.Metadata.AnalysisType, row.AnalysisType)
	assert.Equal(t, report.Metadata.DataQuality, row.DataQuality)

	var reloaded models.InsightsReport
	require.NoError(t, json.Unmarshal(row.Insights, &reloaded))
	assert.Equal(t, row.Confidence, reloaded.Metadata.Confidence)
	assert.Equal(t, row.AnalysisType, reloaded.Metadata.AnalysisType)
	assert.Equal(t, report.UserID, reloaded.UserID)
}

func TestEndToEndPipeline(t *testing.T) {
	// 100 views + 20 clicks through the collector, then the generator.
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	var events []models.MenuEvent
	for i := 0; i < 100; i++ {
		e := viewEvent("lunch", base.Add(time.Duration(i)*time.Minute), i%5 != 4)
		e.SessionID = "s" + string(rune('a'+i%20))
		events = append(events, e)
	}
	for i := 0; i < 20; i++ {
		e := clickEvent("lunch", "Burger", base.Add(time.Duration(100+i)*time.Minute))
		e.IsMobile = i%5 != 4
		e.SessionID = "s" + string(rune('a'+i))
		events = append(events, e)
	}

	menus := &fakeMenuStore{menus: []models.Menu{{ID: "m1", Slug: "lunch", Title: "Lunch", IsActive: true}}}
	c := newTestCollector(&fakeProfileStore{}, menus, &fakeEventStore{events: events})

	bundle, err := c.Collect(context.Background(), "user-1", 30)
	require.NoError(t, err)
	assert.Equal(t, 20.0, bundle.Processed.Summary.ClickThroughRate)
	assert.Equal(t, 80.0, bundle.Processed.Devices.MobilePercent)

	writer := &captureInsightsWriter{}
	g := NewInsightsGenerator(writer)
	report, err := g.Generate(context.Background(), bundle)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, report.Performance.Score, 40, "CTR tier alone contributes 40")
	assert.Equal(t, "high", report.Performance.EngagementLevel)
	assert.True(t, report.Summary.HasEnoughData)
	assert.Equal(t, 120, report.Metadata.TotalEvents)
}

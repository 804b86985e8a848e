package models

import (
	"encoding/json"
	"time"
)

// InsightsReport is the derived, persisted output of the insights engine:
// one report per user per generation, newest overwriting the last.
type InsightsReport struct {
	UserID       string               `json:"userId"`
	Performance  PerformanceInsights  `json:"performance"`
	Behavioral   BehavioralInsights   `json:"behavioral"`
	Predictive   PredictiveInsights   `json:"predictive"`
	Optimization OptimizationInsights `json:"optimization"`
	Competitive  CompetitiveInsights  `json:"competitive"`
	Summary      SummaryInsights      `json:"summary"`
	Metadata     ReportMetadata       `json:"metadata"`
}

type ReportMetadata struct {
	GeneratedAt  time.Time `json:"generatedAt"`
	Confidence   float64   `json:"confidence"`
	DataQuality  string    `json:"dataQuality"`
	AnalysisType string    `json:"analysisType"`
	WindowDays   int       `json:"windowDays"`
	TotalEvents  int       `json:"totalEvents"`
}

type PerformanceInsights struct {
	Score           int               `json:"score"`
	Rating          string            `json:"rating"`
	CTR             float64           `json:"ctr"`
	EngagementLevel string            `json:"engagementLevel"`
	TopMenus        []MenuPerformance `json:"topMenus"`
	Assessment      string            `json:"assessment"`
}

type BehavioralInsights struct {
	AvgSessionMinutes float64      `json:"avgSessionMinutes"`
	BounceRate        float64      `json:"bounceRate"`
	MobilePercent     float64      `json:"mobilePercent"`
	DominantDevice    string       `json:"dominantDevice"`
	PeakHours         []HourBucket `json:"peakHours"`
	PeakDays          []DayBucket  `json:"peakDays"`
	ReturnVisitorRate float64      `json:"returnVisitorRate"`
}

// PredictiveInsights are heuristic projections from fixed multipliers, not
// a forecast model. See the growth-rate tiers in the insights engine.
type PredictiveInsights struct {
	GrowthRate              float64 `json:"growthRate"`
	ProjectedViews          int     `json:"projectedViews"`
	AverageItemPrice        float64 `json:"averageItemPrice"`
	CurrentRevenuePotential float64 `json:"currentRevenuePotential"`
	PotentialRevenueUplift  float64 `json:"potentialRevenueUplift"`
	Horizon                 string  `json:"horizon"`
}

type Recommendation struct {
	Title     string `json:"title"`
	Detail    string `json:"detail"`
	Timeframe string `json:"timeframe"`
	Impact    string `json:"impact"`
	Effort    string `json:"effort"`
	Priority  int    `json:"priority"`
}

type OptimizationInsights struct {
	Recommendations []Recommendation `json:"recommendations"`
}

type CompetitiveInsights struct {
	IndustryAvgCTR float64 `json:"industryAvgCtr"`
	YourCTR        float64 `json:"yourCtr"`
	Position       string  `json:"position"`
	SampleSize     int     `json:"sampleSize"`
	Benchmark      string  `json:"benchmark"`
}

type SummaryInsights struct {
	Headline            string   `json:"headline"`
	KeyFindings         []string `json:"keyFindings"`
	HasEnoughData       bool     `json:"hasEnoughData"`
	RecommendedAnalysis string   `json:"recommendedAnalysis"`
}

// InsightsRow mirrors the menu_insights table: the serialized report plus
// the columns dashboards filter on without unpacking the JSON blob.
type InsightsRow struct {
	UserID       string          `json:"user_id"`
	Insights     json.RawMessage `json:"insights"`
	GeneratedAt  time.Time       `json:"generated_at"`
	Confidence   float64         `json:"confidence"`
	DataQuality  string          `json:"data_quality"`
	AnalysisType string          `json:"analysis_type"`
}

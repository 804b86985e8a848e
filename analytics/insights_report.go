package analytics

import (
	"fmt"
	"math"
	"sort"

	"menuboard/api/models"
)

const (
	// minEventsForInsights is the floor below which the report downgrades
	// itself to a basic analysis.
	minEventsForInsights = 10

	// defaultItemPrice stands in for unpriced ("market price") items.
	defaultItemPrice = 15.0

	// Conversion assumptions behind the revenue illustration. No real
	// transaction data backs these numbers.
	currentConversionRate   = 0.3
	potentialConversionRate = 0.5

	// Fallback industry CTR when the cross-tenant sample has no views.
	baselineIndustryCTR = 10.0
)

func performanceInsights(bundle *models.AnalyticsBundle) models.PerformanceInsights {
	summary := bundle.Processed.Summary
	sessions := bundle.Processed.Sessions

	score := performanceScore(summary.ClickThroughRate, sessions.BounceRate)
	top := bundle.Processed.MenuPerformance
	if len(top) > 3 {
		top = top[:3]
	}

	rating := scoreRating(score)
	return models.PerformanceInsights{
		Score:           score,
		Rating:          rating,
		CTR:             summary.ClickThroughRate,
		EngagementLevel: engagementLevel(summary.ClickThroughRate),
		TopMenus:        top,
		Assessment: fmt.Sprintf("Your menus scored %d/100 (%s) over the last %d days.",
			score, rating, bundle.Metadata.Days),
	}
}

// performanceScore sums three independent weighted components: the CTR tier,
// the engagement tier derived from the same CTR thresholds, and an inverse
// bounce-rate tier. Each component is monotonic in its input.
func performanceScore(ctr, bounceRate float64) int {
	score := 0

	switch {
	case ctr >= 20:
		score += 40
	case ctr >= 15:
		score += 30
	case ctr >= 10:
		score += 20
	case ctr >= 5:
		score += 10
	}

	switch engagementLevel(ctr) {
	case "high":
		score += 30
	case "medium":
		score += 20
	case "low":
		score += 10
	}

	switch {
	case bounceRate <= 30:
		score += 30
	case bounceRate <= 50:
		score += 20
	case bounceRate <= 70:
		score += 10
	}

	return score
}

func scoreRating(score int) string {
	switch {
	case score >= 80:
		return "excellent"
	case score >= 60:
		return "good"
	case score >= 40:
		return "average"
	default:
		return "needs-improvement"
	}
}

func engagementLevel(ctr float64) string {
	switch {
	case ctr >= 20:
		return "high"
	case ctr >= 15:
		return "medium"
	case ctr >= 10:
		return "low"
	default:
		return "minimal"
	}
}

func behavioralInsights(bundle *models.AnalyticsBundle) models.BehavioralInsights {
	sessions := bundle.Processed.Sessions
	devices := bundle.Processed.Devices
	dist := bundle.Processed.TimeDistribution

	dominant := "desktop"
	if devices.Mobile >= devices.Desktop && devices.Mobile > 0 {
		dominant = "mobile"
	}

	return models.BehavioralInsights{
		AvgSessionMinutes: sessions.AvgSessionMinutes,
		BounceRate:        sessions.BounceRate,
		MobilePercent:     devices.MobilePercent,
		DominantDevice:    dominant,
		PeakHours:         dist.PeakHours,
		PeakDays:          dist.PeakDays,
		ReturnVisitorRate: sessions.ReturnVisitorRate,
	}
}

// predictiveInsights applies fixed multipliers keyed off CTR. This is a
// heuristic placeholder, not a time-series fit.
func predictiveInsights(bundle *models.AnalyticsBundle) models.PredictiveInsights {
	summary := bundle.Processed.Summary

	rate := growthRate(summary.ClickThroughRate)
	avgPrice := averageItemPrice(bundle.MenuItems)

	return models.PredictiveInsights{
		GrowthRate:              rate,
		ProjectedViews:          int(math.Round(float64(summary.TotalViews) * rate)),
		AverageItemPrice:        avgPrice,
		CurrentRevenuePotential: round2(float64(summary.TotalClicks) * avgPrice * currentConversionRate),
		PotentialRevenueUplift:  round2(float64(summary.TotalClicks) * avgPrice * potentialConversionRate),
		Horizon:                 fmt.Sprintf("next %d days", bundle.Metadata.Days),
	}
}

func growthRate(ctr float64) float64 {
	switch {
	case ctr > 15:
		return 1.2
	case ctr > 10:
		return 1.1
	default:
		return 1.05
	}
}

func averageItemPrice(items []models.MenuItem) float64 {
	var sum float64
	var priced int
	for _, it := range items {
		if it.Price != nil {
			sum += *it.Price
			priced++
		}
	}
	if priced == 0 {
		return defaultItemPrice
	}
	return round2(sum / float64(priced))
}

// recommendationCandidates is the fixed action list. Insertion order breaks
// priority ties, so keep immediate actions first.
var recommendationCandidates = []models.Recommendation{
	{
		Title:     "Feature your best sellers",
		Detail:    "Move the most-clicked items to the top of their categories so new visitors see them first.",
		Timeframe: "immediate",
		Impact:    "high",
		Effort:    "low",
	},
	{
		Title:     "Add photos to quiet items",
		Detail:    "Items with few clicks convert better with a photo and a one-line description.",
		Timeframe: "immediate",
		Impact:    "medium",
		Effort:    "low",
	},
	{
		Title:     "Promote around peak hours",
		Detail:    "Schedule specials and social posts just before your busiest viewing hours.",
		Timeframe: "short-term",
		Impact:    "high",
		Effort:    "medium",
	},
	{
		Title:     "Tune pricing on mid-tier items",
		Detail:    "Compare click rates across price points within a category and adjust outliers.",
		Timeframe: "short-term",
		Impact:    "medium",
		Effort:    "medium",
	},
	{
		Title:     "Run a seasonal menu refresh",
		Detail:    "Retire chronic underperformers and trial replacements on a limited section.",
		Timeframe: "long-term",
		Impact:    "high",
		Effort:    "high",
	},
	{
		Title:     "Split menus by location",
		Detail:    "Separate menus per location make traffic attribution and per-site tuning possible.",
		Timeframe: "long-term",
		Impact:    "medium",
		Effort:    "high",
	},
}

func optimizationInsights(bundle *models.AnalyticsBundle) models.OptimizationInsights {
	recs := make([]models.Recommendation, len(recommendationCandidates))
	copy(recs, recommendationCandidates)
	for i := range recs {
		recs[i].Priority = impactScore(recs[i].Impact) + inverseEffortScore(recs[i].Effort)
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority > recs[j].Priority
	})
	return models.OptimizationInsights{Recommendations: recs}
}

func impactScore(impact string) int {
	switch impact {
	case "high":
		return 3
	case "medium":
		return 2
	default:
		return 1
	}
}

func inverseEffortScore(effort string) int {
	switch effort {
	case "low":
		return 3
	case "medium":
		return 2
	default:
		return 1
	}
}

// competitiveInsights benchmarks the user's CTR against the cross-tenant
// sample, falling back to a fixed baseline when the sample has no views.
func competitiveInsights(bundle *models.AnalyticsBundle) models.CompetitiveInsights {
	var views, clicks int
	for _, e := range bundle.SampleData {
		if e.IsBot {
			continue
		}
		switch e.EventType {
		case models.EventTypeMenuView:
			views++
		case models.EventTypeItemClick:
			clicks++
		}
	}

	industry := baselineIndustryCTR
	if views > 0 {
		industry = clickThroughRate(clicks, views)
	}

	yours := bundle.Processed.Summary.ClickThroughRate
	position := "on par with"
	switch {
	case yours > industry*1.1:
		position = "ahead of"
	case yours < industry*0.9:
		position = "behind"
	}

	return models.CompetitiveInsights{
		IndustryAvgCTR: industry,
		YourCTR:        yours,
		Position:       position,
		SampleSize:     views + clicks,
		Benchmark: fmt.Sprintf("Your click-through rate of %.2f%% is %s the industry average of %.2f%%.",
			yours, position, industry),
	}
}

func summaryInsights(bundle *models.AnalyticsBundle) models.SummaryInsights {
	summary := bundle.Processed.Summary
	total := summary.TotalViews + summary.TotalClicks
	enough := total >= minEventsForInsights

	headline := "Not enough traffic yet to draw conclusions."
	if enough {
		headline = fmt.Sprintf("%d menu views and %d item clicks in the last %d days.",
			summary.TotalViews, summary.TotalClicks, bundle.Metadata.Days)
	}

	var findings []string
	if enough {
		findings = append(findings, fmt.Sprintf("Overall click-through rate is %.2f%% (%s).",
			summary.ClickThroughRate, categorizePerformance(summary.ClickThroughRate)))
		if devices := bundle.Processed.Devices; devices.MobilePercent >= 60 {
			findings = append(findings, fmt.Sprintf("Most of your traffic is mobile (%.1f%%).", devices.MobilePercent))
		}
		if peaks := bundle.Processed.TimeDistribution.PeakHours; len(peaks) > 0 {
			findings = append(findings, fmt.Sprintf("Your busiest viewing hour is %02d:00.", peaks[0].Hour))
		}
		if items := bundle.Processed.ItemPerformance; len(items) > 0 {
			findings = append(findings, fmt.Sprintf("%q is your most-clicked item.", items[0].Name))
		}
	} else {
		findings = append(findings, "Share your menu link to start collecting engagement data.")
	}

	return models.SummaryInsights{
		Headline:            headline,
		KeyFindings:         findings,
		HasEnoughData:       enough,
		RecommendedAnalysis: recommendedAnalysis(total),
	}
}

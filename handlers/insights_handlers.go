package handlers

import (
	"net/http"
	"strconv"

	"menuboard/api/analytics"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type InsightsHandlers struct {
	Collector *analytics.Collector
	Generator *analytics.InsightsGenerator
}

func NewInsightsHandlers(collector *analytics.Collector, generator *analytics.InsightsGenerator) *InsightsHandlers {
	return &InsightsHandlers{
		Collector: collector,
		Generator: generator,
	}
}

func lookbackDays(c *gin.Context) (int, bool) {
	daysParam := c.DefaultQuery("days", "30")
	days, err := strconv.Atoi(daysParam)
	if err != nil || days <= 0 || days > 365 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'days' parameter. Must be an integer between 1 and 365."})
		return 0, false
	}
	return days, true
}

// GetInsights runs the full pipeline and returns the generated report. A
// persistence failure is logged but does not fail the request; the computed
// report is still served.
func (h *InsightsHandlers) GetInsights(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	days, ok := lookbackDays(c)
	if !ok {
		return
	}

	bundle, err := h.Collector.Collect(c.Request.Context(), userID, days)
	if err != nil {
		log.Printf("Error collecting analytics for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to collect analytics data"})
		return
	}

	report, err := h.Generator.Generate(c.Request.Context(), bundle)
	if err != nil {
		if report == nil {
			log.Printf("Error generating insights for user %s: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate insights"})
			return
		}
		// Computed but not saved: serve the in-memory report anyway.
		log.Printf("Insights for user %s computed but not persisted: %v", userID, err)
	}

	c.JSON(http.StatusOK, report)
}

// GetSummary exposes the raw processed metrics for dashboard widgets that
// do not need the full insights report.
func (h *InsightsHandlers) GetSummary(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	days, ok := lookbackDays(c)
	if !ok {
		return
	}

	bundle, err := h.Collector.Collect(c.Request.Context(), userID, days)
	if err != nil {
		log.Printf("Error collecting analytics for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to collect analytics data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"processed": bundle.Processed,
		"metadata":  bundle.Metadata,
	})
}

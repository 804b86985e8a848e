package handlers

import (
	"context"
	"net/http"
	"time"

	"menuboard/api/models"
	"menuboard/api/store"
	"menuboard/api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// TrackRequest is the public reporting payload sent from menu pages. The
// server derives everything privacy- or trust-sensitive itself: event IDs,
// device and bot classification, and the hashed visitor identifier.
type TrackRequest struct {
	EventType string     `json:"eventType" binding:"required,oneof=menu_view item_click"`
	MenuSlug  string     `json:"menuSlug" binding:"required"`
	ItemName  string     `json:"itemName"`
	SessionID string     `json:"sessionId"`
	Timestamp *time.Time `json:"timestamp"`
}

type TrackHandlers struct {
	EventStore *store.EventStore
}

func NewTrackHandlers(s *store.EventStore) *TrackHandlers {
	return &TrackHandlers{
		EventStore: s,
	}
}

func (h *TrackHandlers) TrackEvents(c *gin.Context) {
	// Menu pages batch their events before reporting.
	var incoming []TrackRequest
	if err := c.ShouldBindJSON(&incoming); err != nil {
		log.Printf("Error binding incoming tracking JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if len(incoming) == 0 {
		c.Status(http.StatusOK)
		return
	}

	userAgent := c.Request.UserAgent()
	ipHash := utils.HashIP(c.ClientIP())
	now := time.Now().UTC()

	events := make([]models.MenuEvent, 0, len(incoming))
	for _, req := range incoming {
		ts := now
		if req.Timestamp != nil {
			ts = req.Timestamp.UTC()
		}
		events = append(events, models.MenuEvent{
			EventID:   uuid.New().String(),
			EventType: req.EventType,
			MenuSlug:  req.MenuSlug,
			ItemName:  req.ItemName,
			Timestamp: ts,
			UserAgent: userAgent,
			IsMobile:  utils.IsMobileUserAgent(userAgent),
			IsBot:     utils.IsBotUserAgent(userAgent),
			SessionID: req.SessionID,
			IPHash:    ipHash,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if err := h.EventStore.InsertMenuEvents(ctx, events); err != nil {
		log.Printf("Error inserting menu events into ClickHouse: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record events"})
		return
	}

	c.Status(http.StatusOK)
}

package models

import "time"

const (
	EventTypeMenuView  = "menu_view"
	EventTypeItemClick = "item_click"
)

// MenuEvent represents one observed diner interaction with a published menu.
// Events are append-only; the pipeline only ever reads them.
type MenuEvent struct {
	EventID   string    `json:"eventId"`
	EventType string    `json:"eventType"`
	MenuSlug  string    `json:"menuSlug"`
	ItemName  string    `json:"itemName,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	UserAgent string    `json:"userAgent"`
	IsMobile  bool      `json:"isMobile"`
	IsBot     bool      `json:"isBot"`
	SessionID string    `json:"sessionId"`
	IPHash    string    `json:"ipHash"`
}

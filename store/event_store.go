package store

import (
	"context"
	"fmt"
	"time"

	"menuboard/api/database"
	"menuboard/api/models"

	log "github.com/sirupsen/logrus"
)

// EventStore reads and writes the append-only menu_events table in
// ClickHouse. Events are never updated or deleted.
type EventStore struct {
	DB *database.ClickHouseClient
}

func NewEventStore(chClient *database.ClickHouseClient) *EventStore {
	return &EventStore{
		DB: chClient,
	}
}

func (s *EventStore) InsertMenuEvents(ctx context.Context, events []models.MenuEvent) error {
	if len(events) == 0 {
		return nil
	}

	// Column names and order must exactly match the menu_events table schema.
	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO menu_events (
			event_id, event_type, menu_slug, item_name, timestamp, user_agent,
			is_mobile, is_bot, session_id, ip_hash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	for _, event := range events {
		err := batch.Append(
			event.EventID,
			event.EventType,
			event.MenuSlug,
			event.ItemName,
			event.Timestamp,
			event.UserAgent,
			event.IsMobile,
			event.IsBot,
			event.SessionID,
			event.IPHash,
		)
		if err != nil {
			log.Printf("Error appending event to batch (EventID: %s): %v", event.EventID, err)
		}
	}

	err = batch.Send()
	if err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Printf("Successfully inserted %d menu events.", len(events))
	return nil
}

// GetEventsBySlugs returns the raw events for a set of menu slugs inside a
// time window, oldest first. Bot rows come back too; exclusion happens in
// the aggregation layer so the raw feed stays complete.
func (s *EventStore) GetEventsBySlugs(ctx context.Context, slugs []string, start, end time.Time) ([]models.MenuEvent, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	query := `
		SELECT event_id, event_type, menu_slug, item_name, timestamp, user_agent,
		       is_mobile, is_bot, session_id, ip_hash
		FROM menu_events
		WHERE menu_slug IN (?) AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`
	rows, err := s.DB.Conn.Query(ctx, query, slugs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu events: %w", err)
	}
	defer rows.Close()

	var events []models.MenuEvent
	for rows.Next() {
		var e models.MenuEvent
		if err := rows.Scan(
			&e.EventID,
			&e.EventType,
			&e.MenuSlug,
			&e.ItemName,
			&e.Timestamp,
			&e.UserAgent,
			&e.IsMobile,
			&e.IsBot,
			&e.SessionID,
			&e.IPHash,
		); err != nil {
			log.Printf("Error scanning menu event row: %v", err)
			continue
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error querying menu events: %w", err)
	}
	return events, nil
}

// GetSampleEvents returns a capped cross-tenant slice of recent events used
// only for the industry benchmark. Never attributed to a single account.
func (s *EventStore) GetSampleEvents(ctx context.Context, start, end time.Time, limit uint64) ([]models.MenuEvent, error) {
	if limit == 0 || limit > 1000 {
		limit = 1000
	}

	query := `
		SELECT event_id, event_type, menu_slug, item_name, timestamp, user_agent,
		       is_mobile, is_bot, session_id, ip_hash
		FROM menu_events
		WHERE timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp DESC
		LIMIT ?
	`
	rows, err := s.DB.Conn.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sample events: %w", err)
	}
	defer rows.Close()

	var events []models.MenuEvent
	for rows.Next() {
		var e models.MenuEvent
		if err := rows.Scan(
			&e.EventID,
			&e.EventType,
			&e.MenuSlug,
			&e.ItemName,
			&e.Timestamp,
			&e.UserAgent,
			&e.IsMobile,
			&e.IsBot,
			&e.SessionID,
			&e.IPHash,
		); err != nil {
			log.Printf("Error scanning sample event row: %v", err)
			continue
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error querying sample events: %w", err)
	}
	return events, nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"

	"menuboard/api/models"

	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

type MenuStore struct {
	db *sql.DB
}

func NewMenuStore(db *sql.DB) *MenuStore {
	return &MenuStore{db: db}
}

// GetMenusByUser returns every menu the user owns, active or not. Slugs are
// stable across edits, so downstream event joins key on them.
func (s *MenuStore) GetMenusByUser(ctx context.Context, userID string) ([]models.Menu, error) {
	query := `
		SELECT id, user_id, slug, title, is_active, organization_id, location_id, created_at, updated_at
		FROM menus
		WHERE user_id = $1
		ORDER BY created_at ASC;
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query menus: %w", err)
	}
	defer rows.Close()

	var menus []models.Menu
	for rows.Next() {
		var m models.Menu
		if err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.Slug,
			&m.Title,
			&m.IsActive,
			&m.OrganizationID,
			&m.LocationID,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			log.Printf("Error scanning menu row: %v", err)
			continue
		}
		menus = append(menus, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error querying menus: %w", err)
	}
	return menus, nil
}

// GetItemsByMenuIDs returns the flattened item list across a set of menus.
func (s *MenuStore) GetItemsByMenuIDs(ctx context.Context, menuIDs []string) ([]models.MenuItem, error) {
	if len(menuIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, menu_id, name, price, category, sort_order
		FROM menu_items
		WHERE menu_id = ANY($1)
		ORDER BY menu_id ASC, sort_order ASC;
	`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(menuIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var it models.MenuItem
		if err := rows.Scan(
			&it.ID,
			&it.MenuID,
			&it.Name,
			&it.Price,
			&it.Category,
			&it.SortOrder,
		); err != nil {
			log.Printf("Error scanning menu item row: %v", err)
			continue
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error querying menu items: %w", err)
	}
	return items, nil
}

package models

import "time"

type Menu struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	IsActive       bool      `json:"isActive"`
	OrganizationID *string   `json:"organizationId,omitempty"`
	LocationID     *string   `json:"locationId,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MenuItem belongs to exactly one menu. A nil Price means "market price".
type MenuItem struct {
	ID        string   `json:"id"`
	MenuID    string   `json:"menuId"`
	Name      string   `json:"name"`
	Price     *float64 `json:"price,omitempty"`
	Category  string   `json:"category"`
	SortOrder int      `json:"sortOrder"`
}

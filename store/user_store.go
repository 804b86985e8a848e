package store

import (
	"context"
	"database/sql"
	"fmt"

	"menuboard/api/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore instance.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// CreateUser inserts a new user into the database.
func (s *UserStore) CreateUser(ctx context.Context, email, restaurantName string, hashedPassword []byte) (*models.User, error) {
	user := &models.User{}
	query := `
		INSERT INTO users (id, email, restaurant_name, hashed_password)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, restaurant_name, created_at, updated_at;
	`
	err := s.db.QueryRowContext(ctx, query, uuid.New().String(), email, restaurantName, hashedPassword).Scan(
		&user.ID,
		&user.Email,
		&user.RestaurantName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err.Error() == `pq: duplicate key value violates unique constraint "idx_users_email"` ||
			err.Error() == `pq: duplicate key value violates unique constraint "users_email_key"` {
			return nil, fmt.Errorf("user with email '%s' already exists", email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("User created in DB: ID=%s, Email=%s", user.ID, user.Email)
	return user, nil
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, restaurant_name, hashed_password, created_at, updated_at
		FROM users
		WHERE email = $1;
	`
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.RestaurantName,
		&user.HashedPassword,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user with email '%s' not found", email)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// GetOrCreateProfile loads a user profile, lazily inserting a default row
// when none exists yet. A missing profile is not an error: accounts created
// through the hosted auth provider may hit the analytics path before their
// first profile write.
func (s *UserStore) GetOrCreateProfile(ctx context.Context, userID string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, restaurant_name, created_at, updated_at
		FROM users
		WHERE id = $1;
	`
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.Email,
		&user.RestaurantName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == nil {
		return user, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	log.Printf("No profile found for user %s, creating default record", userID)
	insert := `
		INSERT INTO users (id, email, restaurant_name)
		VALUES ($1, '', 'My Restaurant')
		ON CONFLICT (id) DO UPDATE SET updated_at = now()
		RETURNING id, email, restaurant_name, created_at, updated_at;
	`
	err = s.db.QueryRowContext(ctx, insert, userID).Scan(
		&user.ID,
		&user.Email,
		&user.RestaurantName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create default user profile: %w", err)
	}
	return user, nil
}

// GetSubscription returns the user's subscription row, or nil when the user
// has never subscribed.
func (s *UserStore) GetSubscription(ctx context.Context, userID string) (*models.Subscription, error) {
	sub := &models.Subscription{}
	query := `
		SELECT id, user_id, plan, status, current_period_end
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY current_period_end DESC
		LIMIT 1;
	`
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.Plan,
		&sub.Status,
		&sub.CurrentPeriodEnd,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return sub, nil
}

// GetBranding returns the user's branding settings, or nil when none are saved.
func (s *UserStore) GetBranding(ctx context.Context, userID string) (*models.BrandingSettings, error) {
	b := &models.BrandingSettings{}
	query := `
		SELECT user_id, logo_url, primary_color, secondary_color, font_family
		FROM branding_settings
		WHERE user_id = $1;
	`
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&b.UserID,
		&b.LogoURL,
		&b.PrimaryColor,
		&b.SecondaryColor,
		&b.FontFamily,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get branding settings: %w", err)
	}
	return b, nil
}

// GetOrganization returns the organization the user belongs to, or nil for
// single-operator accounts.
func (s *UserStore) GetOrganization(ctx context.Context, userID string) (*models.Organization, error) {
	org := &models.Organization{}
	query := `
		SELECT o.id, o.name, m.role
		FROM organization_members m
		JOIN organizations o ON o.id = m.organization_id
		WHERE m.user_id = $1
		LIMIT 1;
	`
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&org.ID, &org.Name, &org.Role)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get organization membership: %w", err)
	}
	return org, nil
}

// ListActiveMenuOwners returns the IDs of users with at least one active
// menu. The scheduled refresher uses this to keep dashboards warm.
func (s *UserStore) ListActiveMenuOwners(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT user_id
		FROM menus
		WHERE is_active = true
		ORDER BY user_id ASC;
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active menu owners: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			log.Printf("Error scanning active menu owner row: %v", err)
			continue
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error listing active menu owners: %w", err)
	}
	return ids, nil
}

package analytics

import (
	"context"
	"time"

	"menuboard/api/models"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultLookbackDays is used when a caller passes days <= 0.
	DefaultLookbackDays = 30

	sampleEventLimit = 1000
)

// ProfileStore supplies the per-user entity rows the bundle aggregates.
type ProfileStore interface {
	GetOrCreateProfile(ctx context.Context, userID string) (*models.User, error)
	GetSubscription(ctx context.Context, userID string) (*models.Subscription, error)
	GetBranding(ctx context.Context, userID string) (*models.BrandingSettings, error)
	GetOrganization(ctx context.Context, userID string) (*models.Organization, error)
}

// MenuReader supplies the user's menus and their flattened item lists.
type MenuReader interface {
	GetMenusByUser(ctx context.Context, userID string) ([]models.Menu, error)
	GetItemsByMenuIDs(ctx context.Context, menuIDs []string) ([]models.MenuItem, error)
}

// EventReader supplies raw interaction events from the event store.
type EventReader interface {
	GetEventsBySlugs(ctx context.Context, slugs []string, start, end time.Time) ([]models.MenuEvent, error)
	GetSampleEvents(ctx context.Context, start, end time.Time, limit uint64) ([]models.MenuEvent, error)
}

// Collector assembles the AnalyticsBundle for a user: it fans out over the
// independent data sources, joins the results, and derives the first pass
// of metrics. Bundles are cached for a few minutes per (user, window) key.
type Collector struct {
	profiles ProfileStore
	menus    MenuReader
	events   EventReader
	cache    *resultCache[*models.AnalyticsBundle]
	now      func() time.Time
}

func NewCollector(profiles ProfileStore, menus MenuReader, events EventReader) *Collector {
	return &Collector{
		profiles: profiles,
		menus:    menus,
		events:   events,
		cache:    newResultCache[*models.AnalyticsBundle](bundleCacheTTL),
		now:      time.Now,
	}
}

// Collect builds the analytics bundle for a user over the trailing window.
// Any data-source failure aborts the whole call; no partial bundle is ever
// returned. A missing user profile is not a failure: a default row is
// created instead.
func (c *Collector) Collect(ctx context.Context, userID string, days int) (*models.AnalyticsBundle, error) {
	if days <= 0 {
		days = DefaultLookbackDays
	}

	key := cacheKey(userID, days)
	if cached, ok := c.cache.Get(key); ok {
		log.Printf("Analytics cache hit for %s", key)
		return cached, nil
	}

	end := c.now()
	start := end.AddDate(0, 0, -days)

	// Menus come first: their slug set gates the event query, and their IDs
	// gate the item query. Everything else is independent.
	menus, err := c.menus.GetMenusByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		slugs   []string
		menuIDs []string
	)
	for _, m := range menus {
		slugs = append(slugs, m.Slug)
		menuIDs = append(menuIDs, m.ID)
	}

	var (
		user         *models.User
		items        []models.MenuItem
		events       []models.MenuEvent
		subscription *models.Subscription
		branding     *models.BrandingSettings
		organization *models.Organization
		sample       []models.MenuEvent
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = c.profiles.GetOrCreateProfile(gctx, userID)
		return err
	})
	g.Go(func() error {
		if len(slugs) == 0 {
			// No menus means no attributable traffic; skip the query.
			return nil
		}
		var err error
		events, err = c.events.GetEventsBySlugs(gctx, slugs, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = c.menus.GetItemsByMenuIDs(gctx, menuIDs)
		return err
	})
	g.Go(func() error {
		var err error
		subscription, err = c.profiles.GetSubscription(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		branding, err = c.profiles.GetBranding(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		organization, err = c.profiles.GetOrganization(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		sample, err = c.events.GetSampleEvents(gctx, start, end, sampleEventLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bundle := &models.AnalyticsBundle{
		User:         user,
		Menus:        menus,
		MenuItems:    items,
		Events:       events,
		Subscription: subscription,
		Branding:     branding,
		Organization: organization,
		SampleData:   sample,
	}
	bundle.Processed = deriveMetrics(menus, items, events)
	bundle.Metadata = models.BundleMetadata{
		UserID:      userID,
		Days:        days,
		WindowStart: start,
		WindowEnd:   end,
		CollectedAt: end,
		DataQuality: assessDataQuality(menus, events),
	}

	c.cache.Set(key, bundle)
	return bundle, nil
}

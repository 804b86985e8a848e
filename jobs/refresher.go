// Package jobs hosts background work that keeps dashboards warm without a
// user in the loop.
package jobs

import (
	"context"
	"time"

	"menuboard/api/analytics"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// UserLister yields the accounts worth refreshing proactively.
type UserLister interface {
	ListActiveMenuOwners(ctx context.Context) ([]string, error)
}

// InsightsRefresher periodically re-runs the analytics pipeline for every
// user with an active menu so their first dashboard load of the day hits a
// fresh persisted report instead of computing one inline.
type InsightsRefresher struct {
	users     UserLister
	collector *analytics.Collector
	generator *analytics.InsightsGenerator
	cron      *cron.Cron
}

func NewInsightsRefresher(users UserLister, collector *analytics.Collector, generator *analytics.InsightsGenerator) *InsightsRefresher {
	return &InsightsRefresher{
		users:     users,
		collector: collector,
		generator: generator,
		cron:      cron.New(),
	}
}

// Start schedules the refresh sweep. spec uses the cron package's syntax,
// e.g. "@every 6h".
func (r *InsightsRefresher) Start(spec string) error {
	if spec == "" {
		spec = "@every 6h"
	}
	if _, err := r.cron.AddFunc(spec, r.Sweep); err != nil {
		return err
	}
	r.cron.Start()
	log.Printf("Insights refresher scheduled (%s)", spec)
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (r *InsightsRefresher) Stop() {
	<-r.cron.Stop().Done()
}

// Sweep refreshes every active account. Per-user failures are logged and
// skipped; one broken account must not starve the rest.
func (r *InsightsRefresher) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	userIDs, err := r.users.ListActiveMenuOwners(ctx)
	if err != nil {
		log.Printf("Insights refresh sweep aborted: %v", err)
		return
	}

	var refreshed, failed int
	for _, userID := range userIDs {
		bundle, err := r.collector.Collect(ctx, userID, analytics.DefaultLookbackDays)
		if err != nil {
			log.Printf("Refresh: failed to collect analytics for user %s: %v", userID, err)
			failed++
			continue
		}
		if _, err := r.generator.Generate(ctx, bundle); err != nil {
			log.Printf("Refresh: insights for user %s not persisted: %v", userID, err)
			failed++
			continue
		}
		refreshed++
	}
	log.Printf("Insights refresh sweep done: %d refreshed, %d failed", refreshed, failed)
}

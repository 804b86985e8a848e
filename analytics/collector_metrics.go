package analytics

import (
	"math"
	"sort"
	"time"

	"menuboard/api/models"
)

var weekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// deriveMetrics computes the first-pass metrics over the collected rows.
// Bot traffic is excluded from every aggregation.
func deriveMetrics(menus []models.Menu, items []models.MenuItem, events []models.MenuEvent) models.ProcessedMetrics {
	human := excludeBots(events)

	return models.ProcessedMetrics{
		Summary:          buildSummary(menus, items, human),
		TimeDistribution: buildTimeDistribution(human),
		Devices:          buildDeviceSplit(human),
		MenuPerformance:  buildMenuPerformance(menus, human),
		ItemPerformance:  buildItemPerformance(items, human),
		Sessions:         buildSessionMetrics(human),
	}
}

func excludeBots(events []models.MenuEvent) []models.MenuEvent {
	var out []models.MenuEvent
	for _, e := range events {
		if !e.IsBot {
			out = append(out, e)
		}
	}
	return out
}

func buildSummary(menus []models.Menu, items []models.MenuItem, events []models.MenuEvent) models.Summary {
	s := models.Summary{
		TotalMenus: len(menus),
		TotalItems: len(items),
	}
	for _, m := range menus {
		if m.IsActive {
			s.ActiveMenus++
		}
	}
	for _, e := range events {
		switch e.EventType {
		case models.EventTypeMenuView:
			s.TotalViews++
		case models.EventTypeItemClick:
			s.TotalClicks++
		}
	}
	s.ClickThroughRate = clickThroughRate(s.TotalClicks, s.TotalViews)
	return s
}

// clickThroughRate returns clicks/views as a percentage rounded to two
// decimals. Zero views yields zero, never NaN.
func clickThroughRate(clicks, views int) float64 {
	if views == 0 {
		return 0
	}
	return round2(float64(clicks) / float64(views) * 100)
}

func buildTimeDistribution(events []models.MenuEvent) models.TimeDistribution {
	d := models.TimeDistribution{
		Daily: make(map[string]int),
	}
	for _, e := range events {
		d.Hourly[e.Timestamp.Hour()]++
		d.Weekly[int(e.Timestamp.Weekday())]++
		d.Daily[e.Timestamp.Format("2006-01-02")]++
	}
	d.PeakHours = peakHours(d.Hourly)
	d.PeakDays = peakDays(d.Weekly)
	return d
}

// peakHours returns the top three non-empty hour buckets. Iteration runs
// hour 0 through 23 and the sort is stable, so equal counts resolve to the
// earlier hour deterministically.
func peakHours(hourly [24]int) []models.HourBucket {
	var buckets []models.HourBucket
	for h := 0; h < 24; h++ {
		if hourly[h] > 0 {
			buckets = append(buckets, models.HourBucket{Hour: h, Count: hourly[h]})
		}
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Count > buckets[j].Count
	})
	if len(buckets) > 3 {
		buckets = buckets[:3]
	}
	return buckets
}

// peakDays mirrors peakHours over day-of-week buckets, Sunday first.
func peakDays(weekly [7]int) []models.DayBucket {
	var buckets []models.DayBucket
	for d := 0; d < 7; d++ {
		if weekly[d] > 0 {
			buckets = append(buckets, models.DayBucket{Day: weekdayNames[d], Count: weekly[d]})
		}
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Count > buckets[j].Count
	})
	if len(buckets) > 3 {
		buckets = buckets[:3]
	}
	return buckets
}

func buildDeviceSplit(events []models.MenuEvent) models.DeviceSplit {
	var split models.DeviceSplit
	for _, e := range events {
		if e.IsMobile {
			split.Mobile++
		} else {
			split.Desktop++
		}
	}
	total := split.Mobile + split.Desktop
	if total > 0 {
		split.MobilePercent = round1(float64(split.Mobile) / float64(total) * 100)
		split.DesktopPercent = round1(float64(split.Desktop) / float64(total) * 100)
	}
	return split
}

func buildMenuPerformance(menus []models.Menu, events []models.MenuEvent) []models.MenuPerformance {
	titles := make(map[string]string, len(menus))
	var slugOrder []string
	for _, m := range menus {
		if _, seen := titles[m.Slug]; !seen {
			slugOrder = append(slugOrder, m.Slug)
		}
		titles[m.Slug] = m.Title
	}

	views := make(map[string]int)
	clicks := make(map[string]int)
	for _, e := range events {
		switch e.EventType {
		case models.EventTypeMenuView:
			views[e.MenuSlug]++
		case models.EventTypeItemClick:
			clicks[e.MenuSlug]++
		}
	}

	var perf []models.MenuPerformance
	for _, slug := range slugOrder {
		ctr := clickThroughRate(clicks[slug], views[slug])
		perf = append(perf, models.MenuPerformance{
			Slug:   slug,
			Title:  titles[slug],
			Views:  views[slug],
			Clicks: clicks[slug],
			CTR:    ctr,
			Rating: categorizePerformance(ctr),
		})
	}
	sort.SliceStable(perf, func(i, j int) bool {
		return perf[i].Views > perf[j].Views
	})
	return perf
}

// categorizePerformance buckets a menu CTR percentage into a qualitative
// rating.
func categorizePerformance(ctr float64) string {
	switch {
	case ctr >= 20:
		return "excellent"
	case ctr >= 15:
		return "good"
	case ctr >= 10:
		return "average"
	case ctr >= 5:
		return "below-average"
	default:
		return "poor"
	}
}

func buildItemPerformance(items []models.MenuItem, events []models.MenuEvent) []models.ItemPerformance {
	// Only clicks carry item identity; views never do.
	clicks := make(map[string]int)
	var nameOrder []string
	for _, e := range events {
		if e.EventType != models.EventTypeItemClick || e.ItemName == "" {
			continue
		}
		if _, seen := clicks[e.ItemName]; !seen {
			nameOrder = append(nameOrder, e.ItemName)
		}
		clicks[e.ItemName]++
	}

	known := make(map[string]models.MenuItem, len(items))
	for _, it := range items {
		if _, dup := known[it.Name]; !dup {
			known[it.Name] = it
		}
	}

	var perf []models.ItemPerformance
	for _, name := range nameOrder {
		p := models.ItemPerformance{
			Name:     name,
			Category: "Menu",
			Price:    defaultItemPrice,
			Clicks:   clicks[name],
			Rating:   categorizeItemClicks(clicks[name]),
		}
		if it, ok := known[name]; ok {
			if it.Category != "" {
				p.Category = it.Category
			}
			if it.Price != nil {
				p.Price = *it.Price
			}
		}
		perf = append(perf, p)
	}
	sort.SliceStable(perf, func(i, j int) bool {
		return perf[i].Clicks > perf[j].Clicks
	})
	return perf
}

// categorizeItemClicks buckets an absolute click count into the item
// rating scale.
func categorizeItemClicks(clicks int) string {
	switch {
	case clicks >= 20:
		return "star-performer"
	case clicks >= 10:
		return "high-performer"
	case clicks >= 5:
		return "average"
	case clicks >= 2:
		return "low-performer"
	default:
		return "underperforming"
	}
}

// anonymousSessionID is where events without a session land. All anonymous
// events collapse into this single pseudo-session, which understates session
// counts under heavy anonymous traffic; kept as-is so historical metrics
// stay comparable.
const anonymousSessionID = "anonymous"

func buildSessionMetrics(events []models.MenuEvent) models.SessionMetrics {
	sessions := make(map[string][]time.Time)
	visitors := make(map[string]map[string]struct{})
	for _, e := range events {
		sid := e.SessionID
		if sid == "" {
			sid = anonymousSessionID
		}
		sessions[sid] = append(sessions[sid], e.Timestamp)
		if e.IPHash != "" {
			if visitors[e.IPHash] == nil {
				visitors[e.IPHash] = make(map[string]struct{})
			}
			visitors[e.IPHash][sid] = struct{}{}
		}
	}

	m := models.SessionMetrics{
		TotalSessions:  len(sessions),
		UniqueVisitors: len(visitors),
	}
	if len(sessions) == 0 {
		return m
	}

	var bounces int
	var totalMinutes float64
	for _, stamps := range sessions {
		if len(stamps) == 1 {
			bounces++
			continue
		}
		min, max := stamps[0], stamps[0]
		for _, ts := range stamps[1:] {
			if ts.Before(min) {
				min = ts
			}
			if ts.After(max) {
				max = ts
			}
		}
		totalMinutes += max.Sub(min).Minutes()
	}
	m.AvgSessionMinutes = round2(totalMinutes / float64(len(sessions)))
	m.BounceRate = round1(float64(bounces) / float64(len(sessions)) * 100)

	var returning int
	for _, sids := range visitors {
		if len(sids) > 1 {
			returning++
		}
	}
	if len(visitors) > 0 {
		m.ReturnVisitorRate = round1(float64(returning) / float64(len(visitors)) * 100)
	}
	return m
}

// assessDataQuality grades the collected window on four independent axes and
// rolls them up: high when at least three axes grade excellent or good,
// medium at two, low below that.
func assessDataQuality(menus []models.Menu, events []models.MenuEvent) models.DataQuality {
	human := excludeBots(events)

	q := models.DataQuality{
		Volume:         gradeVolume(len(human)),
		TimeSpan:       gradeTimeSpan(human),
		MenuCoverage:   gradeMenuCoverage(menus, human),
		EventDiversity: gradeEventDiversity(human),
	}

	healthy := 0
	for _, axis := range []string{q.Volume, q.TimeSpan, q.MenuCoverage, q.EventDiversity} {
		if axis == "excellent" || axis == "good" {
			healthy++
		}
	}
	switch {
	case healthy >= 3:
		q.Overall = "high"
	case healthy >= 2:
		q.Overall = "medium"
	default:
		q.Overall = "low"
	}
	return q
}

func gradeVolume(count int) string {
	switch {
	case count >= 100:
		return "excellent"
	case count >= 20:
		return "good"
	default:
		return "poor"
	}
}

func gradeTimeSpan(events []models.MenuEvent) string {
	days := make(map[string]struct{})
	for _, e := range events {
		days[e.Timestamp.Format("2006-01-02")] = struct{}{}
	}
	switch {
	case len(days) >= 14:
		return "excellent"
	case len(days) >= 7:
		return "good"
	default:
		return "fair"
	}
}

func gradeMenuCoverage(menus []models.Menu, events []models.MenuEvent) string {
	if len(menus) == 0 {
		return "poor"
	}
	seen := make(map[string]struct{})
	for _, e := range events {
		seen[e.MenuSlug] = struct{}{}
	}
	covered := 0
	for _, m := range menus {
		if _, ok := seen[m.Slug]; ok {
			covered++
		}
	}
	ratio := float64(covered) / float64(len(menus))
	switch {
	case ratio >= 0.8:
		return "excellent"
	case ratio >= 0.5:
		return "good"
	default:
		return "poor"
	}
}

func gradeEventDiversity(events []models.MenuEvent) string {
	var views, clicks bool
	for _, e := range events {
		switch e.EventType {
		case models.EventTypeMenuView:
			views = true
		case models.EventTypeItemClick:
			clicks = true
		}
	}
	switch {
	case views && clicks:
		return "excellent"
	case views || clicks:
		return "fair"
	default:
		return "poor"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

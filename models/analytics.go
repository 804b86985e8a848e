package models

import "time"

// AnalyticsBundle is the merged, ephemeral view of everything the insights
// pipeline needs for one user. It is rebuilt on every collection (modulo a
// short-lived cache) and never persisted.
type AnalyticsBundle struct {
	User         *User             `json:"user"`
	Menus        []Menu            `json:"menus"`
	MenuItems    []MenuItem        `json:"menuItems"`
	Events       []MenuEvent       `json:"events"`
	Processed    ProcessedMetrics  `json:"processed"`
	Subscription *Subscription     `json:"subscription,omitempty"`
	Branding     *BrandingSettings `json:"branding,omitempty"`
	Organization *Organization     `json:"organization,omitempty"`
	SampleData   []MenuEvent       `json:"-"`
	Metadata     BundleMetadata    `json:"metadata"`
}

type BundleMetadata struct {
	UserID      string      `json:"userId"`
	Days        int         `json:"days"`
	WindowStart time.Time   `json:"windowStart"`
	WindowEnd   time.Time   `json:"windowEnd"`
	CollectedAt time.Time   `json:"collectedAt"`
	DataQuality DataQuality `json:"dataQuality"`
}

type ProcessedMetrics struct {
	Summary          Summary           `json:"summary"`
	TimeDistribution TimeDistribution  `json:"timeDistribution"`
	Devices          DeviceSplit       `json:"devices"`
	MenuPerformance  []MenuPerformance `json:"menuPerformance"`
	ItemPerformance  []ItemPerformance `json:"itemPerformance"`
	Sessions         SessionMetrics    `json:"sessions"`
}

type Summary struct {
	TotalViews       int     `json:"totalViews"`
	TotalClicks      int     `json:"totalClicks"`
	ClickThroughRate float64 `json:"clickThroughRate"`
	TotalMenus       int     `json:"totalMenus"`
	ActiveMenus      int     `json:"activeMenus"`
	TotalItems       int     `json:"totalItems"`
}

type HourBucket struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type DayBucket struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type TimeDistribution struct {
	Hourly    [24]int        `json:"hourly"`
	Daily     map[string]int `json:"daily"`
	Weekly    [7]int         `json:"weekly"`
	PeakHours []HourBucket   `json:"peakHours"`
	PeakDays  []DayBucket    `json:"peakDays"`
}

type DeviceSplit struct {
	Mobile         int     `json:"mobile"`
	Desktop        int     `json:"desktop"`
	MobilePercent  float64 `json:"mobilePercent"`
	DesktopPercent float64 `json:"desktopPercent"`
}

type MenuPerformance struct {
	Slug   string  `json:"slug"`
	Title  string  `json:"title"`
	Views  int     `json:"views"`
	Clicks int     `json:"clicks"`
	CTR    float64 `json:"ctr"`
	Rating string  `json:"rating"`
}

type ItemPerformance struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Clicks   int     `json:"clicks"`
	Rating   string  `json:"rating"`
}

type SessionMetrics struct {
	TotalSessions     int     `json:"totalSessions"`
	AvgSessionMinutes float64 `json:"avgSessionMinutes"`
	BounceRate        float64 `json:"bounceRate"`
	UniqueVisitors    int     `json:"uniqueVisitors"`
	ReturnVisitorRate float64 `json:"returnVisitorRate"`
}

// DataQuality grades the collected window on four independent axes. The
// overall grade feeds the insights confidence score.
type DataQuality struct {
	Volume         string `json:"volume"`
	TimeSpan       string `json:"timeSpan"`
	MenuCoverage   string `json:"menuCoverage"`
	EventDiversity string `json:"eventDiversity"`
	Overall        string `json:"overall"`
}

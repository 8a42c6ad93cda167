package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tracked event types
const (
	EventPageView  = "page_view"
	EventLinkClick = "link_click"
)

// PageView represents one visit of a public page
type PageView struct {
	ID          uuid.UUID `json:"id"`
	ProfileID   uuid.UUID `json:"profile_id"`
	VisitorID   string    `json:"visitor_id"` // truncated hash of ip + user agent
	Referrer    string    `json:"referrer,omitempty"`
	Country     string    `json:"country,omitempty"`
	City        string    `json:"city,omitempty"`
	DeviceType  string    `json:"device_type"`
	Browser     string    `json:"browser"`
	UTMSource   string    `json:"utm_source,omitempty"`
	UTMMedium   string    `json:"utm_medium,omitempty"`
	UTMCampaign string    `json:"utm_campaign,omitempty"`
	ViewedAt    time.Time `json:"viewed_at"`
}

// LinkClick represents a click on any link of a public page
type LinkClick struct {
	ID         uuid.UUID `json:"id"`
	ProfileID  uuid.UUID `json:"profile_id"`
	LinkType   string    `json:"link_type"`
	LinkID     string    `json:"link_id,omitempty"`
	Platform   string    `json:"platform,omitempty"`
	URL        string    `json:"url"`
	Referrer   string    `json:"referrer,omitempty"`
	Country    string    `json:"country,omitempty"`
	DeviceType string    `json:"device_type"`
	ClickedAt  time.Time `json:"clicked_at"`
}

// TrackEvent is the body posted by the public page beacon.
type TrackEvent struct {
	Type        string `json:"type" label:"Type" validate:"required,oneof=page_view link_click"`
	ProfileID   string `json:"profile_id" label:"Profile" validate:"required,uuid"`
	LinkType    string `json:"link_type" label:"Link type" validate:"omitempty,oneof=music social merch tour subscribe"`
	LinkID      string `json:"link_id" label:"Link" validate:"omitempty,max=64"`
	Platform    string `json:"platform" label:"Platform" validate:"max=40"`
	URL         string `json:"url" label:"URL" validate:"max=2048"`
	UTMSource   string `json:"utm_source" validate:"max=200"`
	UTMMedium   string `json:"utm_medium" validate:"max=200"`
	UTMCampaign string `json:"utm_campaign" validate:"max=200"`
}

// RequestMeta is what the transport knows about the visitor.
type RequestMeta struct {
	IP        string
	UserAgent string
	Referrer  string
	Country   string
	City      string
}

// AnalyticsSummary is the owner's analytics view.
type AnalyticsSummary struct {
	PageViews30d    int64            `json:"page_views_30d"`
	LinkClicks30d   int64            `json:"link_clicks_30d"`
	TotalPageViews  int64            `json:"total_page_views"`
	TotalLinkClicks int64            `json:"total_link_clicks"`
	UniqueVisitors  int64            `json:"unique_visitors_30d"`
	DailyViews      []DailyCount     `json:"daily_views"`
	Referrers       map[string]int64 `json:"referrers"` // count by referrer
	Devices         map[string]int64 `json:"devices"`
	ClicksByType    map[string]int64 `json:"clicks_by_type"`
}

type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

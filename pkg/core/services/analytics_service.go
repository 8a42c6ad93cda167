package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
	"github.com/wadjakorntonsri/artistus/pkg/core/validation"
	"github.com/wadjakorntonsri/artistus/pkg/ports"
)

// SummaryWindow is the span of the windowed analytics figures.
const SummaryWindow = 30 * 24 * time.Hour

type AnalyticsService struct {
	repo ports.AnalyticsRepository
	log  *zap.Logger
	now  func() time.Time
}

func NewAnalyticsService(repo ports.AnalyticsRepository, log *zap.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, log: orNop(log), now: time.Now}
}

// Track appends one page view or link click.
func (s *AnalyticsService) Track(ctx context.Context, ev domain.TrackEvent, meta domain.RequestMeta) error {
	if err := validation.Struct(ev); err != nil {
		return err
	}
	profileID, err := uuid.Parse(ev.ProfileID)
	if err != nil {
		return domain.Invalid("Invalid profile")
	}
	device := DeviceType(meta.UserAgent)
	now := s.now()

	switch ev.Type {
	case domain.EventPageView:
		return s.repo.RecordPageView(ctx, &domain.PageView{
			ID:          uuid.New(),
			ProfileID:   profileID,
			VisitorID:   VisitorID(meta.IP, meta.UserAgent),
			Referrer:    meta.Referrer,
			Country:     meta.Country,
			City:        meta.City,
			DeviceType:  device,
			Browser:     Browser(meta.UserAgent),
			UTMSource:   ev.UTMSource,
			UTMMedium:   ev.UTMMedium,
			UTMCampaign: ev.UTMCampaign,
			ViewedAt:    now,
		})
	default:
		linkType := ev.LinkType
		if linkType == "" {
			linkType = string(domain.KindMusic)
		}
		return s.repo.RecordLinkClick(ctx, &domain.LinkClick{
			ID:         uuid.New(),
			ProfileID:  profileID,
			LinkType:   linkType,
			LinkID:     ev.LinkID,
			Platform:   ev.Platform,
			URL:        ev.URL,
			Referrer:   meta.Referrer,
			Country:    meta.Country,
			DeviceType: device,
			ClickedAt:  now,
		})
	}
}

func (s *AnalyticsService) Summary(ctx context.Context, ownerID uuid.UUID) (*domain.AnalyticsSummary, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.repo.GetAnalyticsSummary(ctx, ownerID, s.now().Add(-SummaryWindow))
}

var (
	tabletUA = regexp.MustCompile(`(?i)tablet|ipad`)
	mobileUA = regexp.MustCompile(`(?i)mobile|android|iphone|ipad`)
)

// DeviceType classifies a user agent as tablet, mobile or desktop.
func DeviceType(ua string) string {
	switch {
	case tabletUA.MatchString(ua):
		return "tablet"
	case mobileUA.MatchString(ua):
		return "mobile"
	}
	return "desktop"
}

// Browser names the browser family. Order matters: Edge and Chrome both
// claim Safari, Edge also claims Chrome.
func Browser(ua string) string {
	ua = strings.ToLower(ua)
	switch {
	case strings.Contains(ua, "firefox"):
		return "Firefox"
	case strings.Contains(ua, "edg"):
		return "Edge"
	case strings.Contains(ua, "chrome"):
		return "Chrome"
	case strings.Contains(ua, "safari"):
		return "Safari"
	}
	return "Other"
}

// VisitorID is a stable pseudonymous id; the raw ip is never stored.
func VisitorID(ip, ua string) string {
	sum := sha256.Sum256([]byte(ip + ":" + ua))
	return hex.EncodeToString(sum[:])[:32]
}

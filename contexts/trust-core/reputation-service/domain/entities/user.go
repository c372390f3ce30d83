package entities

import (
	"strings"
	"time"
)

type User struct {
	UserID          string
	ExternalID      string
	Username        string
	Verified        bool
	IsScam          bool
	IsBlocked       bool
	IsPremium       bool
	ManualDelta     float64
	RatingVersion   int64
	CachedAuto      float64
	CachedTotal     float64
	ComputedVersion int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ActivityCounters holds the per-user ledger. Counters never go negative;
// mutation happens only through the apply-delta command.
type ActivityCounters struct {
	UserID            string
	AdsActive         int
	AdsCompleted      int
	AdsHidden         int
	DealsTotal        int
	DealsSuccessful   int
	DealsDisputed     int
	ProfileViewsWeek  int
	ProfileViewsMonth int
	UpdatedAt         time.Time
}

type ProfileView struct {
	ViewID        string
	ProfileUserID string
	ViewerUserID  string
	ViewedAt      time.Time
}

// RatingRow pairs a user with its counters for leaderboard computation.
type RatingRow struct {
	User     User
	Counters ActivityCounters
}

type CounterField string

const (
	CounterAdsActive         CounterField = "ads_active"
	CounterAdsCompleted      CounterField = "ads_completed"
	CounterAdsHidden         CounterField = "ads_hidden"
	CounterDealsTotal        CounterField = "deals_total"
	CounterDealsSuccessful   CounterField = "deals_successful"
	CounterDealsDisputed     CounterField = "deals_disputed"
	CounterProfileViewsWeek  CounterField = "profile_views_week"
	CounterProfileViewsMonth CounterField = "profile_views_month"
)

func ParseCounterField(raw string) (CounterField, bool) {
	field := CounterField(strings.ToLower(strings.TrimSpace(raw)))
	switch field {
	case CounterAdsActive, CounterAdsCompleted, CounterAdsHidden,
		CounterDealsTotal, CounterDealsSuccessful, CounterDealsDisputed,
		CounterProfileViewsWeek, CounterProfileViewsMonth:
		return field, true
	default:
		return "", false
	}
}

// Value reads the named counter. Apply writes it back, clamped at zero.
func (c ActivityCounters) Value(field CounterField) int {
	switch field {
	case CounterAdsActive:
		return c.AdsActive
	case CounterAdsCompleted:
		return c.AdsCompleted
	case CounterAdsHidden:
		return c.AdsHidden
	case CounterDealsTotal:
		return c.DealsTotal
	case CounterDealsSuccessful:
		return c.DealsSuccessful
	case CounterDealsDisputed:
		return c.DealsDisputed
	case CounterProfileViewsWeek:
		return c.ProfileViewsWeek
	case CounterProfileViewsMonth:
		return c.ProfileViewsMonth
	default:
		return 0
	}
}

func (c *ActivityCounters) Apply(field CounterField, delta int) {
	next := c.Value(field) + delta
	if next < 0 {
		next = 0
	}
	switch field {
	case CounterAdsActive:
		c.AdsActive = next
	case CounterAdsCompleted:
		c.AdsCompleted = next
	case CounterAdsHidden:
		c.AdsHidden = next
	case CounterDealsTotal:
		c.DealsTotal = next
	case CounterDealsSuccessful:
		c.DealsSuccessful = next
	case CounterDealsDisputed:
		c.DealsDisputed = next
	case CounterProfileViewsWeek:
		c.ProfileViewsWeek = next
	case CounterProfileViewsMonth:
		c.ProfileViewsMonth = next
	}
}

type TrustFlag string

const (
	TrustFlagVerified TrustFlag = "verified"
	TrustFlagScam     TrustFlag = "scam"
	TrustFlagBlocked  TrustFlag = "blocked"
)

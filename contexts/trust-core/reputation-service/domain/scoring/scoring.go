// Package scoring derives the automatic rating from activity counters and
// trust signals. The formula is pure; persistence and cache gating live in
// the application layer.
package scoring

import (
	"math"
	"time"

	"tradepost/contexts/trust-core/reputation-service/domain/entities"
)

const (
	SuccessfulDealPoints = 2.2

	// Tenure accrues per 30-day unit. The cap is the hard bound; the
	// per-unit increment is a tunable, not a documented rule.
	TenureUnitDays   = 30
	TenureUnitPoints = 1.0
	TenureCap        = 12.0

	AdCompletedWeight = 0.7
	DealTotalWeight   = 1.2
	MonthViewsDivisor = 30.0
	ActivityCap       = 20.0

	VerifiedBonus = 5.0
	PremiumBonus  = 1.0
)

type Breakdown struct {
	DealsScore    float64
	TenureScore   float64
	ActivityScore float64
	TrustBonus    float64
	Auto          float64
	ManualDelta   float64
	Total         float64
}

func Compute(user entities.User, counters entities.ActivityCounters, now time.Time) Breakdown {
	dealsScore := float64(counters.DealsSuccessful) * SuccessfulDealPoints

	tenureScore := tenureUnits(user.CreatedAt, now) * TenureUnitPoints
	if tenureScore > TenureCap {
		tenureScore = TenureCap
	}

	activityLoad := float64(counters.AdsActive) +
		float64(counters.AdsCompleted)*AdCompletedWeight +
		float64(counters.DealsTotal)*DealTotalWeight +
		float64(counters.ProfileViewsMonth)/MonthViewsDivisor
	activityScore := math.Min(activityLoad, ActivityCap)

	trustBonus := 0.0
	if user.Verified {
		trustBonus += VerifiedBonus
	}
	if user.IsPremium {
		trustBonus += PremiumBonus
	}

	auto := Round1(dealsScore + tenureScore + activityScore + trustBonus)
	return Breakdown{
		DealsScore:    dealsScore,
		TenureScore:   tenureScore,
		ActivityScore: activityScore,
		TrustBonus:    trustBonus,
		Auto:          auto,
		ManualDelta:   user.ManualDelta,
		Total:         Round1(auto + user.ManualDelta),
	}
}

func Round1(value float64) float64 {
	return math.Round(value*10) / 10
}

func tenureUnits(createdAt, now time.Time) float64 {
	if createdAt.IsZero() || !now.After(createdAt) {
		return 0
	}
	days := math.Floor(now.Sub(createdAt).Hours() / 24)
	return days / TenureUnitDays
}

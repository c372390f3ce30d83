package scoring

import (
	"math"
	"testing"
	"time"

	"tradepost/contexts/trust-core/reputation-service/domain/entities"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeDocumentedScenario(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	user := entities.User{
		Verified:    true,
		ManualDelta: -1,
		CreatedAt:   now,
	}
	counters := entities.ActivityCounters{
		AdsActive:         1,
		AdsCompleted:      2,
		DealsTotal:        4,
		DealsSuccessful:   3,
		ProfileViewsMonth: 30,
	}

	breakdown := Compute(user, counters, now)

	if !almostEqual(breakdown.DealsScore, 6.6) {
		t.Fatalf("deals score: got %v, want 6.6", breakdown.DealsScore)
	}
	if !almostEqual(breakdown.ActivityScore, 8.2) {
		t.Fatalf("activity score: got %v, want 8.2", breakdown.ActivityScore)
	}
	if !almostEqual(breakdown.TrustBonus, 5) {
		t.Fatalf("trust bonus: got %v, want 5", breakdown.TrustBonus)
	}
	if !almostEqual(breakdown.TenureScore, 0) {
		t.Fatalf("tenure score for a fresh account: got %v, want 0", breakdown.TenureScore)
	}
	if !almostEqual(breakdown.Auto, 19.8) {
		t.Fatalf("auto: got %v, want 19.8", breakdown.Auto)
	}
	if !almostEqual(breakdown.Total, 18.8) {
		t.Fatalf("total: got %v, want 18.8", breakdown.Total)
	}
}

func TestTotalEqualsRoundedAutoPlusManualDelta(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	// 0.25 and -1.15 have more than one decimal, so rounding the sum
	// differs from rounding auto alone; the sum wins.
	deltas := []float64{-10, -1.15, -1, -0.5, 0, 0.25, 0.3, 2, 100}
	for _, delta := range deltas {
		user := entities.User{
			Verified:    true,
			IsPremium:   true,
			ManualDelta: delta,
			CreatedAt:   now.Add(-90 * 24 * time.Hour),
		}
		counters := entities.ActivityCounters{DealsSuccessful: 5, AdsActive: 3}
		breakdown := Compute(user, counters, now)
		want := Round1(breakdown.Auto + delta)
		if !almostEqual(breakdown.Total, want) {
			t.Fatalf("delta %v: total %v, want %v", delta, breakdown.Total, want)
		}
	}
}

func TestActivityScoreCapped(t *testing.T) {
	now := time.Now()
	counters := entities.ActivityCounters{
		AdsActive:         100,
		AdsCompleted:      100,
		DealsTotal:        100,
		ProfileViewsMonth: 10000,
	}
	breakdown := Compute(entities.User{CreatedAt: now}, counters, now)
	if !almostEqual(breakdown.ActivityScore, ActivityCap) {
		t.Fatalf("activity score: got %v, want cap %v", breakdown.ActivityScore, ActivityCap)
	}
}

func TestTenureScoreCapped(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	user := entities.User{CreatedAt: now.AddDate(-10, 0, 0)}
	breakdown := Compute(user, entities.ActivityCounters{}, now)
	if !almostEqual(breakdown.TenureScore, TenureCap) {
		t.Fatalf("tenure score after ten years: got %v, want cap %v", breakdown.TenureScore, TenureCap)
	}

	oneUnit := entities.User{CreatedAt: now.Add(-TenureUnitDays * 24 * time.Hour)}
	breakdown = Compute(oneUnit, entities.ActivityCounters{}, now)
	if !almostEqual(breakdown.TenureScore, TenureUnitPoints) {
		t.Fatalf("tenure score after one unit: got %v, want %v", breakdown.TenureScore, TenureUnitPoints)
	}
}

func TestSuccessfulDealsMonotonic(t *testing.T) {
	now := time.Now()
	user := entities.User{CreatedAt: now}
	previous := -1.0
	for deals := 0; deals <= 20; deals++ {
		breakdown := Compute(user, entities.ActivityCounters{DealsSuccessful: deals}, now)
		if breakdown.Auto < previous {
			t.Fatalf("auto dropped from %v to %v at %d deals", previous, breakdown.Auto, deals)
		}
		previous = breakdown.Auto
	}
}

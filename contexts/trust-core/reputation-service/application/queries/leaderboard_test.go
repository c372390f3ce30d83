package queries

import (
	"context"
	"fmt"
	"testing"
	"time"

	"tradepost/contexts/trust-core/reputation-service/adapters/memory"
	"tradepost/contexts/trust-core/reputation-service/domain/entities"
)

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

func seedRows(n int, base time.Time) []entities.RatingRow {
	rows := make([]entities.RatingRow, 0, n)
	for i := 0; i < n; i++ {
		userID := fmt.Sprintf("user-%03d", i)
		rows = append(rows, entities.RatingRow{
			User: entities.User{
				UserID:     userID,
				ExternalID: fmt.Sprintf("ext-%03d", i),
				Username:   userID,
				CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			},
			Counters: entities.ActivityCounters{
				UserID:          userID,
				DealsSuccessful: i % 7,
				AdsActive:       i % 5,
			},
		})
	}
	return rows
}

func collectAllPages(t *testing.T, uc LeaderboardUseCase, pageSize int) []LeaderboardEntry {
	t.Helper()
	var all []LeaderboardEntry
	cursor := ""
	for {
		page, err := uc.Execute(context.Background(), cursor, pageSize)
		if err != nil {
			t.Fatalf("leaderboard page failed: %v", err)
		}
		all = append(all, page.Entries...)
		if page.NextCursor == "" {
			return all
		}
		cursor = page.NextCursor
	}
}

func TestLeaderboardPagesMatchSingleFullSort(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := memory.NewStore(seedRows(47, base))
	uc := LeaderboardUseCase{Repository: store, Clock: fixedClock{at: base.AddDate(0, 2, 0)}}

	full, err := uc.Execute(context.Background(), "", leaderboardMaxLimit)
	if err != nil {
		t.Fatalf("full leaderboard failed: %v", err)
	}
	paged := collectAllPages(t, uc, 10)

	if len(paged) != len(full.Entries) {
		t.Fatalf("page concatenation has %d entries, full sort has %d", len(paged), len(full.Entries))
	}
	for i := range paged {
		if paged[i].UserID != full.Entries[i].UserID {
			t.Fatalf("entry %d: paged %s, full %s", i, paged[i].UserID, full.Entries[i].UserID)
		}
		if paged[i].Rank != i+1 {
			t.Fatalf("entry %d: rank %d, want %d", i, paged[i].Rank, i+1)
		}
	}
}

func TestLeaderboardOrderingAndNoDuplicates(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := memory.NewStore(seedRows(35, base))
	uc := LeaderboardUseCase{Repository: store, Clock: fixedClock{at: base.AddDate(0, 1, 0)}}

	entries := collectAllPages(t, uc, 8)
	seen := map[string]bool{}
	for i, entry := range entries {
		if seen[entry.UserID] {
			t.Fatalf("duplicate user %s across pages", entry.UserID)
		}
		seen[entry.UserID] = true
		if i == 0 {
			continue
		}
		prev := entries[i-1]
		if entry.TotalRating > prev.TotalRating {
			t.Fatalf("total rating increased at %d: %v after %v", i, entry.TotalRating, prev.TotalRating)
		}
		if entry.TotalRating == prev.TotalRating && entry.DealsSuccessful > prev.DealsSuccessful {
			t.Fatalf("deals tiebreak violated at %d", i)
		}
	}
}

func TestLeaderboardExcludesBlockedAndScam(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := seedRows(5, base)
	rows[1].User.IsBlocked = true
	rows[3].User.IsScam = true
	store := memory.NewStore(rows)
	uc := LeaderboardUseCase{Repository: store, Clock: fixedClock{at: base.AddDate(0, 1, 0)}}

	page, err := uc.Execute(context.Background(), "", 50)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(page.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(page.Entries))
	}
	for _, entry := range page.Entries {
		if entry.UserID == rows[1].User.UserID || entry.UserID == rows[3].User.UserID {
			t.Fatalf("flagged user %s appeared on leaderboard", entry.UserID)
		}
	}
}

func TestLeaderboardCursorSurvivesRatingChanges(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := memory.NewStore(seedRows(20, base))
	clock := fixedClock{at: base.AddDate(0, 1, 0)}
	uc := LeaderboardUseCase{Repository: store, Clock: clock}
	ctx := context.Background()

	first, err := uc.Execute(ctx, "", 5)
	if err != nil {
		t.Fatalf("first page failed: %v", err)
	}
	servedOnFirst := map[string]bool{}
	for _, entry := range first.Entries {
		servedOnFirst[entry.UserID] = true
	}

	// A deal lands for a mid-pack user between page fetches.
	if _, err := store.ApplyCounterDelta(ctx, "user-010", entities.CounterDealsSuccessful, 3, clock.at); err != nil {
		t.Fatalf("counter delta failed: %v", err)
	}

	second, err := uc.Execute(ctx, first.NextCursor, 5)
	if err != nil {
		t.Fatalf("second page failed: %v", err)
	}
	if len(second.Entries) == 0 {
		t.Fatalf("expected entries on second page")
	}
	if second.Entries[0].Rank != first.Entries[len(first.Entries)-1].Rank+1 {
		t.Fatalf("rank did not continue: got %d", second.Entries[0].Rank)
	}
	for _, entry := range second.Entries {
		if entry.UserID == first.Entries[len(first.Entries)-1].UserID {
			t.Fatalf("cursor boundary user served twice")
		}
	}
}

func TestLeaderboardRejectsMalformedCursor(t *testing.T) {
	store := memory.NewStore(nil)
	uc := LeaderboardUseCase{Repository: store, Clock: fixedClock{at: time.Now()}}
	if _, err := uc.Execute(context.Background(), "not-a-cursor!!!", 5); err == nil {
		t.Fatalf("expected error for malformed cursor")
	}
}

package queries

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"

	application "tradepost/contexts/trust-core/reputation-service/application"
	"tradepost/contexts/trust-core/reputation-service/domain/entities"
	domainerrors "tradepost/contexts/trust-core/reputation-service/domain/errors"
	"tradepost/contexts/trust-core/reputation-service/domain/scoring"
	"tradepost/contexts/trust-core/reputation-service/ports"
)

const (
	leaderboardDefaultLimit = 20
	leaderboardMaxLimit     = 100
	leaderboardScanCap      = 500
)

type LeaderboardEntry struct {
	Rank            int
	UserID          string
	Username        string
	TotalRating     float64
	DealsSuccessful int
}

type LeaderboardPage struct {
	Entries    []LeaderboardEntry
	NextCursor string
}

// leaderboardCursor is a keyset marker, not an offset: it carries the sort
// key of the last row handed out so pagination stays stable when ratings
// move between pages. Rank rides along so numbering continues.
type leaderboardCursor struct {
	TotalRating     float64 `json:"t"`
	DealsSuccessful int     `json:"d"`
	UserID          string  `json:"u"`
	Rank            int     `json:"r"`
}

// LeaderboardUseCase ranks users by total rating, recomputed from the ledger
// at query time. Each call is its own snapshot; no ordering guarantee spans
// two calls.
type LeaderboardUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (uc LeaderboardUseCase) Execute(ctx context.Context, cursor string, limit int) (LeaderboardPage, error) {
	if limit <= 0 {
		limit = leaderboardDefaultLimit
	}
	if limit > leaderboardMaxLimit {
		limit = leaderboardMaxLimit
	}

	after, hasCursor, err := decodeLeaderboardCursor(cursor)
	if err != nil {
		return LeaderboardPage{}, err
	}

	var rows []entities.RatingRow
	err = application.RetryRead(ctx, func() error {
		var inner error
		rows, inner = uc.Repository.ListRatingRows(ctx, leaderboardScanCap)
		return inner
	})
	if err != nil {
		return LeaderboardPage{}, err
	}

	now := uc.Clock.Now().UTC()
	ranked := make([]rankedRow, 0, len(rows))
	for _, row := range rows {
		if row.User.IsBlocked || row.User.IsScam {
			continue
		}
		breakdown := scoring.Compute(row.User, row.Counters, now)
		ranked = append(ranked, rankedRow{
			UserID:          row.User.UserID,
			Username:        row.User.Username,
			TotalRating:     breakdown.Total,
			DealsSuccessful: row.Counters.DealsSuccessful,
			CreatedAt:       row.User.CreatedAt.UnixNano(),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].less(ranked[j])
	})

	start := 0
	baseRank := 0
	if hasCursor {
		start = resumeIndex(ranked, after)
		baseRank = after.Rank
	}

	end := start + limit
	if end > len(ranked) {
		end = len(ranked)
	}
	entries := make([]LeaderboardEntry, 0, end-start)
	for i := start; i < end; i++ {
		entries = append(entries, LeaderboardEntry{
			Rank:            baseRank + (i - start) + 1,
			UserID:          ranked[i].UserID,
			Username:        ranked[i].Username,
			TotalRating:     ranked[i].TotalRating,
			DealsSuccessful: ranked[i].DealsSuccessful,
		})
	}

	nextCursor := ""
	if end < len(ranked) && len(entries) > 0 {
		last := entries[len(entries)-1]
		nextCursor = encodeLeaderboardCursor(leaderboardCursor{
			TotalRating:     last.TotalRating,
			DealsSuccessful: last.DealsSuccessful,
			UserID:          last.UserID,
			Rank:            last.Rank,
		})
	}

	application.ResolveLogger(uc.Logger).Debug("leaderboard served",
		"event", "reputation_leaderboard_served",
		"module", "trust-core/reputation-service",
		"layer", "application",
		"entries", len(entries),
		"has_next_cursor", nextCursor != "",
	)
	return LeaderboardPage{Entries: entries, NextCursor: nextCursor}, nil
}

type rankedRow struct {
	UserID          string
	Username        string
	TotalRating     float64
	DealsSuccessful int
	CreatedAt       int64
}

func (r rankedRow) less(other rankedRow) bool {
	if r.TotalRating != other.TotalRating {
		return r.TotalRating > other.TotalRating
	}
	if r.DealsSuccessful != other.DealsSuccessful {
		return r.DealsSuccessful > other.DealsSuccessful
	}
	if r.CreatedAt != other.CreatedAt {
		return r.CreatedAt < other.CreatedAt
	}
	return r.UserID < other.UserID
}

// resumeIndex finds where the page after the cursor starts. The cursor row
// itself is matched by user id when it still exists; when it moved or
// vanished, the scan resumes at the first row sorting strictly after the
// cursor key, so no row is served twice within a cursor chain.
func resumeIndex(ranked []rankedRow, after leaderboardCursor) int {
	for i, row := range ranked {
		if row.UserID == after.UserID {
			return i + 1
		}
	}
	for i, row := range ranked {
		if row.TotalRating < after.TotalRating {
			return i
		}
		if row.TotalRating == after.TotalRating {
			if row.DealsSuccessful < after.DealsSuccessful {
				return i
			}
			if row.DealsSuccessful == after.DealsSuccessful && row.UserID > after.UserID {
				return i
			}
		}
	}
	return len(ranked)
}

func encodeLeaderboardCursor(cursor leaderboardCursor) string {
	raw, _ := json.Marshal(cursor)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeLeaderboardCursor(cursor string) (leaderboardCursor, bool, error) {
	if strings.TrimSpace(cursor) == "" {
		return leaderboardCursor{}, false, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return leaderboardCursor{}, false, domainerrors.ErrInvalidCursor
	}
	var decoded leaderboardCursor
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return leaderboardCursor{}, false, domainerrors.ErrInvalidCursor
	}
	return decoded, true, nil
}

package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"tradepost/contexts/trust-core/reputation-service/application/commands"
	"tradepost/contexts/trust-core/reputation-service/application/queries"
	"tradepost/contexts/trust-core/reputation-service/domain/entities"
	httptransport "tradepost/contexts/trust-core/reputation-service/transport/http"
)

type Handler struct {
	TrackUser         commands.TrackUserUseCase
	ApplyDelta        commands.ApplyDeltaUseCase
	AdminAdjustments  commands.AdminAdjustmentsUseCase
	RecordProfileView commands.RecordProfileViewUseCase
	Profile           queries.ProfileUseCase
	Leaderboard       queries.LeaderboardUseCase
	Logger            *slog.Logger
}

func (h Handler) TrackUserHandler(ctx context.Context, req httptransport.TrackUserRequest) (httptransport.ProfileResponse, error) {
	user, err := h.TrackUser.Execute(ctx, commands.TrackUserCommand{
		ExternalID: req.ExternalID,
		Username:   req.Username,
		IsPremium:  req.IsPremium,
	})
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}
	profile, err := h.Profile.GetProfile(ctx, user.UserID)
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}
	return httptransport.ProfileResponse{Profile: mapProfile(profile)}, nil
}

func (h Handler) GetProfileHandler(ctx context.Context, userID string) (httptransport.ProfileResponse, error) {
	profile, err := h.Profile.GetProfile(ctx, userID)
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}
	return httptransport.ProfileResponse{Profile: mapProfile(profile)}, nil
}

func (h Handler) GetProfileByExternalIDHandler(ctx context.Context, externalID string) (httptransport.ProfileResponse, error) {
	profile, err := h.Profile.GetProfileByExternalID(ctx, externalID)
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}
	return httptransport.ProfileResponse{Profile: mapProfile(profile)}, nil
}

func (h Handler) ApplyDeltaHandler(ctx context.Context, userID string, field string, req httptransport.ApplyDeltaRequest) (httptransport.CountersResponse, error) {
	counters, err := h.ApplyDelta.Execute(ctx, commands.ApplyDeltaCommand{
		UserID: userID,
		Field:  field,
		Delta:  req.Delta,
	})
	if err != nil {
		return httptransport.CountersResponse{}, err
	}
	return httptransport.CountersResponse{UserID: counters.UserID, Counters: mapCounters(counters)}, nil
}

func (h Handler) SetManualDeltaHandler(ctx context.Context, userID string, req httptransport.SetManualDeltaRequest) (httptransport.ProfileResponse, error) {
	if _, err := h.AdminAdjustments.SetManualDelta(ctx, commands.SetManualDeltaCommand{
		UserID: userID,
		Delta:  req.Delta,
	}); err != nil {
		return httptransport.ProfileResponse{}, err
	}
	return h.GetProfileHandler(ctx, userID)
}

func (h Handler) SetTrustFlagHandler(ctx context.Context, userID string, flag entities.TrustFlag, req httptransport.SetTrustFlagRequest) (httptransport.ProfileResponse, error) {
	if _, err := h.AdminAdjustments.SetTrustFlag(ctx, commands.SetTrustFlagCommand{
		UserID: userID,
		Flag:   flag,
		Value:  req.Value,
	}); err != nil {
		return httptransport.ProfileResponse{}, err
	}
	return h.GetProfileHandler(ctx, userID)
}

func (h Handler) RecordProfileViewHandler(ctx context.Context, profileUserID string, req httptransport.RecordProfileViewRequest) error {
	return h.RecordProfileView.Execute(ctx, commands.RecordProfileViewCommand{
		ProfileUserID: profileUserID,
		ViewerUserID:  req.ViewerUserID,
	})
}

func (h Handler) LeaderboardHandler(ctx context.Context, cursor string, limit int) (httptransport.LeaderboardResponse, error) {
	page, err := h.Leaderboard.Execute(ctx, cursor, limit)
	if err != nil {
		return httptransport.LeaderboardResponse{}, err
	}
	entries := make([]httptransport.LeaderboardEntryDTO, 0, len(page.Entries))
	for _, entry := range page.Entries {
		entries = append(entries, httptransport.LeaderboardEntryDTO{
			Rank:            entry.Rank,
			UserID:          entry.UserID,
			Username:        entry.Username,
			TotalRating:     entry.TotalRating,
			DealsSuccessful: entry.DealsSuccessful,
		})
	}
	return httptransport.LeaderboardResponse{Entries: entries, NextCursor: page.NextCursor}, nil
}

func mapProfile(profile queries.Profile) httptransport.UserProfileDTO {
	return httptransport.UserProfileDTO{
		UserID:     profile.User.UserID,
		ExternalID: profile.User.ExternalID,
		Username:   profile.User.Username,
		Verified:   profile.User.Verified,
		IsScam:     profile.User.IsScam,
		IsBlocked:  profile.User.IsBlocked,
		IsPremium:  profile.User.IsPremium,
		Rating: httptransport.RatingDTO{
			Auto:          profile.Rating.Auto,
			ManualDelta:   profile.Rating.ManualDelta,
			Total:         profile.Rating.Total,
			DealsScore:    profile.Rating.DealsScore,
			TenureScore:   profile.Rating.TenureScore,
			ActivityScore: profile.Rating.ActivityScore,
			TrustBonus:    profile.Rating.TrustBonus,
		},
		Counters:  mapCounters(profile.Counters),
		CreatedAt: profile.User.CreatedAt.Format(time.RFC3339),
	}
}

func mapCounters(counters entities.ActivityCounters) httptransport.CountersDTO {
	return httptransport.CountersDTO{
		AdsActive:         counters.AdsActive,
		AdsCompleted:      counters.AdsCompleted,
		AdsHidden:         counters.AdsHidden,
		DealsTotal:        counters.DealsTotal,
		DealsSuccessful:   counters.DealsSuccessful,
		DealsDisputed:     counters.DealsDisputed,
		ProfileViewsWeek:  counters.ProfileViewsWeek,
		ProfileViewsMonth: counters.ProfileViewsMonth,
	}
}

package unit

import (
	"context"
	"testing"

	reputationservice "tradepost/contexts/trust-core/reputation-service"
	"tradepost/contexts/trust-core/reputation-service/domain/entities"
	httptransport "tradepost/contexts/trust-core/reputation-service/transport/http"
)

func TestReputationTrackApplyAndProfileFlow(t *testing.T) {
	module := reputationservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	tracked, err := module.Handler.TrackUserHandler(ctx, httptransport.TrackUserRequest{
		ExternalID: "tg-1001",
		Username:   "seller_one",
	})
	if err != nil {
		t.Fatalf("track user failed: %v", err)
	}
	userID := tracked.Profile.UserID

	if _, err := module.Handler.ApplyDeltaHandler(ctx, userID, "deals_successful", httptransport.ApplyDeltaRequest{Delta: 3}); err != nil {
		t.Fatalf("apply delta failed: %v", err)
	}
	if _, err := module.Handler.ApplyDeltaHandler(ctx, userID, "ads_active", httptransport.ApplyDeltaRequest{Delta: 1}); err != nil {
		t.Fatalf("apply delta failed: %v", err)
	}

	profile, err := module.Handler.GetProfileHandler(ctx, userID)
	if err != nil {
		t.Fatalf("get profile failed: %v", err)
	}
	if profile.Profile.Counters.DealsSuccessful != 3 {
		t.Fatalf("deals counter: got %d", profile.Profile.Counters.DealsSuccessful)
	}
	if diff := profile.Profile.Rating.DealsScore - 6.6; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("deals score: got %v, want 6.6", profile.Profile.Rating.DealsScore)
	}

	byExternal, err := module.Handler.GetProfileByExternalIDHandler(ctx, "tg-1001")
	if err != nil {
		t.Fatalf("get profile by external id failed: %v", err)
	}
	if byExternal.Profile.UserID != userID {
		t.Fatalf("external lookup resolved wrong user: %s", byExternal.Profile.UserID)
	}
}

func TestReputationCountersNeverGoNegative(t *testing.T) {
	module := reputationservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	tracked, err := module.Handler.TrackUserHandler(ctx, httptransport.TrackUserRequest{ExternalID: "tg-1002"})
	if err != nil {
		t.Fatalf("track user failed: %v", err)
	}

	resp, err := module.Handler.ApplyDeltaHandler(ctx, tracked.Profile.UserID, "ads_active", httptransport.ApplyDeltaRequest{Delta: -5})
	if err != nil {
		t.Fatalf("apply delta failed: %v", err)
	}
	if resp.Counters.AdsActive != 0 {
		t.Fatalf("counter went negative: %d", resp.Counters.AdsActive)
	}
}

func TestReputationManualDeltaAndTrustFlags(t *testing.T) {
	module := reputationservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	tracked, err := module.Handler.TrackUserHandler(ctx, httptransport.TrackUserRequest{ExternalID: "tg-1003"})
	if err != nil {
		t.Fatalf("track user failed: %v", err)
	}
	userID := tracked.Profile.UserID

	adjusted, err := module.Handler.SetManualDeltaHandler(ctx, userID, httptransport.SetManualDeltaRequest{Delta: -2.5})
	if err != nil {
		t.Fatalf("set manual delta failed: %v", err)
	}
	rating := adjusted.Profile.Rating
	if rating.ManualDelta != -2.5 {
		t.Fatalf("manual delta: got %v", rating.ManualDelta)
	}
	want := rating.Auto - 2.5
	if diff := rating.Total - want; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("total %v does not equal auto %v plus delta", rating.Total, rating.Auto)
	}

	verified, err := module.Handler.SetTrustFlagHandler(ctx, userID, entities.TrustFlagVerified, httptransport.SetTrustFlagRequest{Value: true})
	if err != nil {
		t.Fatalf("set verified failed: %v", err)
	}
	if !verified.Profile.Verified {
		t.Fatalf("verified flag not applied")
	}
	if verified.Profile.Rating.TrustBonus != 5 {
		t.Fatalf("trust bonus: got %v, want 5", verified.Profile.Rating.TrustBonus)
	}
}

func TestReputationUnknownCounterFieldRejected(t *testing.T) {
	module := reputationservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	tracked, err := module.Handler.TrackUserHandler(ctx, httptransport.TrackUserRequest{ExternalID: "tg-1004"})
	if err != nil {
		t.Fatalf("track user failed: %v", err)
	}
	if _, err := module.Handler.ApplyDeltaHandler(ctx, tracked.Profile.UserID, "karma", httptransport.ApplyDeltaRequest{Delta: 1}); err == nil {
		t.Fatalf("expected error for unknown counter field")
	}
}

package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"tradepost/contexts/moderation-safety/listing-workflow/adapters/memory"
	"tradepost/contexts/moderation-safety/listing-workflow/domain/entities"
	"tradepost/contexts/moderation-safety/listing-workflow/ports"
)

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

type countingPublisher struct {
	calls int
	fail  bool
}

func (p *countingPublisher) Publish(_ context.Context, _ entities.PublishedListing) error {
	p.calls++
	if p.fail {
		return errors.New("broker unreachable")
	}
	return nil
}

func seedRequest(t *testing.T, store *memory.Store, id string, status entities.Status, expiresAt *time.Time, createdAt time.Time) {
	t.Helper()
	err := store.CreateRequest(context.Background(), entities.Request{
		RequestID:   id,
		SubmitterID: "seller-1",
		Section:     entities.SectionSellAds,
		FormData:    entities.FormData{{Key: "title", Value: "x"}},
		Status:      status,
		ExpiresAt:   expiresAt,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	})
	if err != nil {
		t.Fatalf("seed %s failed: %v", id, err)
	}
}

func TestExpirySweepRejectsStalePending(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	store := memory.NewStore()
	seedRequest(t, store, "req-stale", entities.StatusPending, &past, now.Add(-48*time.Hour))
	seedRequest(t, store, "req-fresh", entities.StatusPending, &future, now.Add(-time.Hour))
	seedRequest(t, store, "req-open-ended", entities.StatusPending, nil, now.Add(-time.Hour))

	job := ExpirySweepJob{Repository: store, Clock: fixedClock{at: now}}
	if err := job.RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	stale, err := store.GetRequest(context.Background(), "req-stale")
	if err != nil {
		t.Fatalf("get stale failed: %v", err)
	}
	if stale.Status != entities.StatusRejected {
		t.Fatalf("stale request not rejected: %s", stale.Status)
	}
	if stale.AdminNote != "expired" {
		t.Fatalf("admin note: got %q, want expired", stale.AdminNote)
	}

	pendingStatus := entities.StatusPending
	pending, err := store.ListRequests(context.Background(), ports.RequestFilter{Status: &pendingStatus})
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending after sweep, got %d", len(pending))
	}
	for _, request := range pending {
		if request.RequestID == "req-stale" {
			t.Fatalf("expired request still listed as pending")
		}
	}
}

func TestExpirySweepSkipsDecidedRequests(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	store := memory.NewStore()
	seedRequest(t, store, "req-approved", entities.StatusApproved, &past, now.Add(-48*time.Hour))

	job := ExpirySweepJob{Repository: store, Clock: fixedClock{at: now}}
	if err := job.RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	request, err := store.GetRequest(context.Background(), "req-approved")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if request.Status != entities.StatusApproved {
		t.Fatalf("sweep touched a decided request: %s", request.Status)
	}
}

func TestExpirySweepOverlapIsSafe(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	store := memory.NewStore()
	seedRequest(t, store, "req-stale", entities.StatusPending, &past, now.Add(-48*time.Hour))

	job := ExpirySweepJob{Repository: store, Clock: fixedClock{at: now}}
	if err := job.RunOnce(context.Background()); err != nil {
		t.Fatalf("first sweep failed: %v", err)
	}
	// A second cycle finds nothing pending; a CAS-losing run must not error.
	if err := job.RunOnce(context.Background()); err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
}

func TestExpirySweepDisabledFlag(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	store := memory.NewStore()
	seedRequest(t, store, "req-stale", entities.StatusPending, &past, now.Add(-48*time.Hour))

	job := ExpirySweepJob{Repository: store, Clock: fixedClock{at: now}, Disabled: true}
	if err := job.RunOnce(context.Background()); err != nil {
		t.Fatalf("disabled sweep failed: %v", err)
	}

	request, err := store.GetRequest(context.Background(), "req-stale")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if request.Status != entities.StatusPending {
		t.Fatalf("disabled sweep still transitioned the request")
	}
}

func TestOutboxRelayDrainsAndRetries(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	ctx := context.Background()

	entry := ports.OutboxEntry{
		EntryID: "entry-1",
		Listing: entities.PublishedListing{
			PublishedItemID: "item-1",
			RequestID:       "req-1",
			SubmitterID:     "seller-1",
			Section:         entities.SectionJobs,
			FormData:        entities.FormData{{Key: "title", Value: "x"}},
			ApprovedAt:      now,
		},
		CreatedAt: now,
	}
	if err := store.AppendOutbox(ctx, entry); err != nil {
		t.Fatalf("append outbox failed: %v", err)
	}

	failing := &countingPublisher{fail: true}
	job := OutboxRelayJob{Repository: store, Publisher: failing, Clock: fixedClock{at: now}}
	if err := job.RunOnce(ctx); err != nil {
		t.Fatalf("relay with failing publisher errored: %v", err)
	}
	remaining, err := store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Attempts != 1 {
		t.Fatalf("expected entry retained with one attempt, got %+v", remaining)
	}

	healthy := &countingPublisher{}
	job = OutboxRelayJob{Repository: store, Publisher: healthy, Clock: fixedClock{at: now.Add(time.Minute)}}
	if err := job.RunOnce(ctx); err != nil {
		t.Fatalf("relay failed: %v", err)
	}
	remaining, err = store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected drained outbox, got %d entries", len(remaining))
	}
	if healthy.calls != 1 {
		t.Fatalf("expected one publish call, got %d", healthy.calls)
	}
}

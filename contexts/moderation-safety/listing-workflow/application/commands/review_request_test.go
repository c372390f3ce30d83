package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"tradepost/contexts/moderation-safety/listing-workflow/adapters/memory"
	"tradepost/contexts/moderation-safety/listing-workflow/domain/entities"
	domainerrors "tradepost/contexts/moderation-safety/listing-workflow/domain/errors"
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

func testFormData() entities.FormData {
	return entities.FormData{
		{Key: "title", Value: "Selling a channel"},
		{Key: "price", Value: "1500"},
	}
}

func submitPending(t *testing.T, store *memory.Store, clock fixedClock) entities.Request {
	t.Helper()
	submit := SubmitRequestUseCase{
		Repository: store,
		Clock:      clock,
		IDGen:      memory.IDGenerator{},
	}
	request, err := submit.Execute(context.Background(), SubmitRequestCommand{
		SubmitterID: "seller-1",
		Section:     "sell-channel",
		FormData:    testFormData(),
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	return request
}

func TestApproveStampsAndForwards(t *testing.T) {
	store := memory.NewStore()
	clock := fixedClock{at: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	request := submitPending(t, store, clock)

	publisher := &countingPublisher{}
	review := ReviewRequestUseCase{
		Repository: store,
		Publisher:  publisher,
		Clock:      clock,
		IDGen:      memory.IDGenerator{},
	}

	result, err := review.Approve(context.Background(), ApproveRequestCommand{RequestID: request.RequestID})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	approved := result.Request
	if approved.Status != entities.StatusApproved {
		t.Fatalf("status: got %s", approved.Status)
	}
	if approved.PublishedItemID != request.RequestID {
		t.Fatalf("omitted published item id should default to request id, got %s", approved.PublishedItemID)
	}
	if approved.ProcessedAt == nil || !approved.ProcessedAt.Equal(clock.at) {
		t.Fatalf("processed at not stamped: %v", approved.ProcessedAt)
	}
	wantExpiry := clock.at.Add(entities.DefaultListingDuration)
	if approved.ExpiresAt == nil || !approved.ExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expires at: got %v, want %v", approved.ExpiresAt, wantExpiry)
	}
	if publisher.calls != 1 {
		t.Fatalf("expected one publish call, got %d", publisher.calls)
	}
}

func TestApproveIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	clock := fixedClock{at: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	request := submitPending(t, store, clock)

	publisher := &countingPublisher{}
	review := ReviewRequestUseCase{
		Repository: store,
		Publisher:  publisher,
		Clock:      clock,
		IDGen:      memory.IDGenerator{},
	}
	ctx := context.Background()

	first, err := review.Approve(ctx, ApproveRequestCommand{RequestID: request.RequestID, PublishedItemID: "item-9"})
	if err != nil {
		t.Fatalf("first approve failed: %v", err)
	}

	later := ReviewRequestUseCase{
		Repository: store,
		Publisher:  publisher,
		Clock:      fixedClock{at: clock.at.Add(time.Hour)},
		IDGen:      memory.IDGenerator{},
	}
	second, err := later.Approve(ctx, ApproveRequestCommand{RequestID: request.RequestID})
	if err != nil {
		t.Fatalf("second approve failed: %v", err)
	}
	if second.Request.PublishedItemID != "item-9" {
		t.Fatalf("replayed approve changed published item id: %s", second.Request.PublishedItemID)
	}
	if !second.Request.ProcessedAt.Equal(*first.Request.ProcessedAt) {
		t.Fatalf("replayed approve changed processed at")
	}
	if publisher.calls != 1 {
		t.Fatalf("replayed approve must not re-forward, got %d publish calls", publisher.calls)
	}
}

func TestApprovePublishFailureParksInOutbox(t *testing.T) {
	store := memory.NewStore()
	clock := fixedClock{at: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	request := submitPending(t, store, clock)

	publisher := &countingPublisher{fail: true}
	review := ReviewRequestUseCase{
		Repository: store,
		Publisher:  publisher,
		Clock:      clock,
		IDGen:      memory.IDGenerator{},
	}
	ctx := context.Background()

	result, err := review.Approve(ctx, ApproveRequestCommand{RequestID: request.RequestID})
	if err != nil {
		t.Fatalf("approve must not fail on publish error: %v", err)
	}
	if result.Request.Status != entities.StatusApproved {
		t.Fatalf("decision rolled back: %s", result.Request.Status)
	}
	if !result.PublishPending {
		t.Fatalf("expected publish pending flag")
	}

	entries, err := store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one outbox entry, got %d", len(entries))
	}
	if entries[0].Listing.RequestID != request.RequestID {
		t.Fatalf("outbox entry holds wrong request: %s", entries[0].Listing.RequestID)
	}
}

func TestRejectIsTerminal(t *testing.T) {
	store := memory.NewStore()
	clock := fixedClock{at: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	request := submitPending(t, store, clock)

	review := ReviewRequestUseCase{
		Repository: store,
		Publisher:  &countingPublisher{},
		Clock:      clock,
		IDGen:      memory.IDGenerator{},
	}
	ctx := context.Background()

	rejected, err := review.Reject(ctx, RejectRequestCommand{RequestID: request.RequestID, AdminNote: "spam"})
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Status != entities.StatusRejected || rejected.AdminNote != "spam" {
		t.Fatalf("unexpected rejected state: %s %q", rejected.Status, rejected.AdminNote)
	}

	if _, err := review.Reject(ctx, RejectRequestCommand{RequestID: request.RequestID}); !errors.Is(err, domainerrors.ErrInvalidStatusTransition) {
		t.Fatalf("re-reject: got %v, want ErrInvalidStatusTransition", err)
	}
	if _, err := review.Approve(ctx, ApproveRequestCommand{RequestID: request.RequestID}); !errors.Is(err, domainerrors.ErrInvalidStatusTransition) {
		t.Fatalf("approve after reject: got %v, want ErrInvalidStatusTransition", err)
	}
}

func TestEditOnlyWhilePending(t *testing.T) {
	store := memory.NewStore()
	clock := fixedClock{at: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	request := submitPending(t, store, clock)

	edit := EditRequestUseCase{Repository: store, Clock: clock}
	ctx := context.Background()

	updated, err := edit.Execute(ctx, EditRequestCommand{
		RequestID: request.RequestID,
		FormData:  entities.FormData{{Key: "title", Value: "Updated title"}},
	})
	if err != nil {
		t.Fatalf("edit while pending failed: %v", err)
	}
	if value, _ := updated.FormData.Get("title"); value != "Updated title" {
		t.Fatalf("form data not replaced: %v", value)
	}

	review := ReviewRequestUseCase{
		Repository: store,
		Publisher:  &countingPublisher{},
		Clock:      clock,
		IDGen:      memory.IDGenerator{},
	}
	if _, err := review.Approve(ctx, ApproveRequestCommand{RequestID: request.RequestID}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	_, err = edit.Execute(ctx, EditRequestCommand{
		RequestID: request.RequestID,
		FormData:  entities.FormData{{Key: "title", Value: "Too late"}},
	})
	if !errors.Is(err, domainerrors.ErrInvalidStatusTransition) {
		t.Fatalf("edit after approve: got %v, want ErrInvalidStatusTransition", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	store := memory.NewStore()
	clock := fixedClock{at: time.Now()}
	submit := SubmitRequestUseCase{
		Repository: store,
		Clock:      clock,
		IDGen:      memory.IDGenerator{},
	}
	ctx := context.Background()

	if _, err := submit.Execute(ctx, SubmitRequestCommand{
		SubmitterID: "seller-1",
		Section:     "antiques",
		FormData:    testFormData(),
	}); !errors.Is(err, domainerrors.ErrInvalidSection) {
		t.Fatalf("unknown section: got %v, want ErrInvalidSection", err)
	}

	if _, err := submit.Execute(ctx, SubmitRequestCommand{
		SubmitterID: "seller-1",
		Section:     "jobs",
	}); !errors.Is(err, domainerrors.ErrEmptyFormData) {
		t.Fatalf("empty form data: got %v, want ErrEmptyFormData", err)
	}
}

func TestCompleteByOwnerOnly(t *testing.T) {
	store := memory.NewStore()
	clock := fixedClock{at: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	request := submitPending(t, store, clock)

	review := ReviewRequestUseCase{
		Repository: store,
		Publisher:  &countingPublisher{},
		Clock:      clock,
		IDGen:      memory.IDGenerator{},
	}
	ctx := context.Background()
	if _, err := review.Approve(ctx, ApproveRequestCommand{RequestID: request.RequestID}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	complete := CompleteRequestUseCase{Repository: store, Clock: clock}
	if _, err := complete.Execute(ctx, CompleteRequestCommand{
		RequestID: request.RequestID,
		OwnerID:   "someone-else",
	}); !errors.Is(err, domainerrors.ErrNotRequestOwner) {
		t.Fatalf("foreign owner: got %v, want ErrNotRequestOwner", err)
	}

	completed, err := complete.Execute(ctx, CompleteRequestCommand{
		RequestID: request.RequestID,
		OwnerID:   "seller-1",
	})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if completed.CompletedAt == nil {
		t.Fatalf("completed at not stamped")
	}

	again, err := complete.Execute(ctx, CompleteRequestCommand{
		RequestID: request.RequestID,
		OwnerID:   "seller-1",
	})
	if err != nil {
		t.Fatalf("repeat complete failed: %v", err)
	}
	if !again.CompletedAt.Equal(*completed.CompletedAt) {
		t.Fatalf("repeat complete moved the timestamp")
	}
}

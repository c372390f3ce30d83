package unit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	listingworkflow "tradepost/contexts/moderation-safety/listing-workflow"
	domainerrors "tradepost/contexts/moderation-safety/listing-workflow/domain/errors"
	httptransport "tradepost/contexts/moderation-safety/listing-workflow/transport/http"
)

func submitBody(submitterID, section string) httptransport.SubmitRequestBody {
	return httptransport.SubmitRequestBody{
		SubmitterID: submitterID,
		Section:     section,
		FormData:    json.RawMessage(`{"title":"MacBook Pro 14","price":1200,"city":"Berlin"}`),
	}
}

func TestListingSubmitApproveCompleteFlow(t *testing.T) {
	module := listingworkflow.NewInMemoryModule(nil)
	ctx := context.Background()

	submitted, err := module.Handler.SubmitHandler(ctx, submitBody("user-1", "sell-ads"))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	requestID := submitted.Request.RequestID
	if submitted.Request.Status != "pending" {
		t.Fatalf("fresh request status: got %s", submitted.Request.Status)
	}

	approved, err := module.Handler.ApproveHandler(ctx, requestID, httptransport.ApproveRequestBody{
		PublishedItemID: "listing-42",
		AdminNote:       "looks fine",
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Request.Status != "approved" {
		t.Fatalf("approved status: got %s", approved.Request.Status)
	}
	if approved.Request.PublishedItemID != "listing-42" {
		t.Fatalf("published item id: got %s", approved.Request.PublishedItemID)
	}
	if approved.Request.ExpiresAt == nil || approved.Request.ProcessedAt == nil {
		t.Fatalf("approve must stamp processedAt and expiresAt")
	}
	if approved.PublishPending {
		t.Fatalf("noop publisher should not leave the publish pending")
	}

	completed, err := module.Handler.CompleteHandler(ctx, requestID, httptransport.CompleteRequestBody{OwnerID: "user-1"})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if completed.Request.CompletedAt == nil {
		t.Fatalf("complete must stamp completedAt")
	}

	publications, err := module.Handler.MyPublicationsHandler(ctx, "user-1", "", 10)
	if err != nil {
		t.Fatalf("my publications failed: %v", err)
	}
	if len(publications.Items) != 1 {
		t.Fatalf("expected one publication, got %d", len(publications.Items))
	}
	if publications.Items[0].PublicationStatus != "completed" {
		t.Fatalf("publication status: got %s", publications.Items[0].PublicationStatus)
	}
}

func TestListingRejectedRequestCannotBeApproved(t *testing.T) {
	module := listingworkflow.NewInMemoryModule(nil)
	ctx := context.Background()

	submitted, err := module.Handler.SubmitHandler(ctx, submitBody("user-2", "jobs"))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	requestID := submitted.Request.RequestID

	rejected, err := module.Handler.RejectHandler(ctx, requestID, httptransport.RejectRequestBody{AdminNote: "spam"})
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Request.Status != "rejected" || rejected.Request.AdminNote != "spam" {
		t.Fatalf("reject outcome: %+v", rejected.Request)
	}

	if _, err := module.Handler.ApproveHandler(ctx, requestID, httptransport.ApproveRequestBody{}); !errors.Is(err, domainerrors.ErrInvalidStatusTransition) {
		t.Fatalf("approve after reject: got %v, want ErrInvalidStatusTransition", err)
	}
}

func TestListingEditLockedAfterDecision(t *testing.T) {
	module := listingworkflow.NewInMemoryModule(nil)
	ctx := context.Background()

	submitted, err := module.Handler.SubmitHandler(ctx, submitBody("user-3", "designers"))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	requestID := submitted.Request.RequestID

	edited, err := module.Handler.EditHandler(ctx, requestID, httptransport.EditRequestBody{
		FormData: json.RawMessage(`{"title":"Logo design","rate":50}`),
	})
	if err != nil {
		t.Fatalf("edit while pending failed: %v", err)
	}
	var form map[string]any
	if err := json.Unmarshal(edited.Request.FormData, &form); err != nil {
		t.Fatalf("form data not json: %v", err)
	}
	if form["title"] != "Logo design" {
		t.Fatalf("edit did not replace form data: %v", form)
	}

	if _, err := module.Handler.ApproveHandler(ctx, requestID, httptransport.ApproveRequestBody{}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if _, err := module.Handler.EditHandler(ctx, requestID, httptransport.EditRequestBody{
		FormData: json.RawMessage(`{"title":"changed"}`),
	}); !errors.Is(err, domainerrors.ErrInvalidStatusTransition) {
		t.Fatalf("edit after approve: got %v, want ErrInvalidStatusTransition", err)
	}
}

func TestListingSubmitRejectsUnknownSection(t *testing.T) {
	module := listingworkflow.NewInMemoryModule(nil)
	ctx := context.Background()

	if _, err := module.Handler.SubmitHandler(ctx, submitBody("user-4", "real-estate")); !errors.Is(err, domainerrors.ErrInvalidSection) {
		t.Fatalf("unknown section: got %v, want ErrInvalidSection", err)
	}
	if _, err := module.Handler.SubmitHandler(ctx, httptransport.SubmitRequestBody{
		SubmitterID: "user-4",
		Section:     "jobs",
		FormData:    json.RawMessage(`{}`),
	}); !errors.Is(err, domainerrors.ErrEmptyFormData) {
		t.Fatalf("empty form data: got %v, want ErrEmptyFormData", err)
	}
}

func TestListingCompleteRequiresOwner(t *testing.T) {
	module := listingworkflow.NewInMemoryModule(nil)
	ctx := context.Background()

	submitted, err := module.Handler.SubmitHandler(ctx, submitBody("user-5", "buy-ads"))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	requestID := submitted.Request.RequestID
	if _, err := module.Handler.ApproveHandler(ctx, requestID, httptransport.ApproveRequestBody{}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	if _, err := module.Handler.CompleteHandler(ctx, requestID, httptransport.CompleteRequestBody{OwnerID: "someone-else"}); !errors.Is(err, domainerrors.ErrNotRequestOwner) {
		t.Fatalf("foreign complete: got %v, want ErrNotRequestOwner", err)
	}

	// An empty owner id is the moderator path and may close any listing.
	if _, err := module.Handler.CompleteHandler(ctx, requestID, httptransport.CompleteRequestBody{}); err != nil {
		t.Fatalf("admin complete failed: %v", err)
	}
}

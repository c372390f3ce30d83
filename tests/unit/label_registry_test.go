package unit

import (
	"context"
	"errors"
	"testing"

	labelregistry "tradepost/contexts/trust-core/label-registry"
	domainerrors "tradepost/contexts/trust-core/label-registry/domain/errors"
	httptransport "tradepost/contexts/trust-core/label-registry/transport/http"
)

func strPtr(s string) *string { return &s }

func TestLabelAssignmentColorLifecycle(t *testing.T) {
	module := labelregistry.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	created, err := module.Handler.CreateLabelHandler(ctx, httptransport.CreateLabelRequest{
		Name:         "trusted seller",
		DefaultColor: "#336699",
	})
	if err != nil {
		t.Fatalf("create label failed: %v", err)
	}
	labelID := created.Label.LabelID

	assigned, err := module.Handler.AssignLabelHandler(ctx, "user-1", labelID, httptransport.AssignLabelRequest{
		CustomColor: strPtr("#112233"),
	})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if assigned.Assignment.CustomColor == nil || *assigned.Assignment.CustomColor != "#112233" {
		t.Fatalf("custom color not stored: %v", assigned.Assignment.CustomColor)
	}

	rendered, err := module.Handler.ListUserLabelsHandler(ctx, "user-1")
	if err != nil {
		t.Fatalf("list user labels failed: %v", err)
	}
	if len(rendered.Items) != 1 {
		t.Fatalf("expected one user label, got %d", len(rendered.Items))
	}
	if rendered.Items[0].Color != "#112233" {
		t.Fatalf("render color: got %s, want custom", rendered.Items[0].Color)
	}

	// Re-assign with no custom color: the row is updated in place,
	// not duplicated, and render falls back to the label default.
	cleared, err := module.Handler.AssignLabelHandler(ctx, "user-1", labelID, httptransport.AssignLabelRequest{CustomColor: nil})
	if err != nil {
		t.Fatalf("re-assign failed: %v", err)
	}
	if cleared.Assignment.CustomColor != nil {
		t.Fatalf("custom color should be cleared, got %v", *cleared.Assignment.CustomColor)
	}

	rendered, err = module.Handler.ListUserLabelsHandler(ctx, "user-1")
	if err != nil {
		t.Fatalf("list user labels failed: %v", err)
	}
	if len(rendered.Items) != 1 {
		t.Fatalf("re-assign duplicated the row: %d items", len(rendered.Items))
	}
	if rendered.Items[0].Color != "#336699" {
		t.Fatalf("render color: got %s, want label default", rendered.Items[0].Color)
	}

	if err := module.Handler.UnassignLabelHandler(ctx, "user-1", labelID); err != nil {
		t.Fatalf("unassign failed: %v", err)
	}
	rendered, err = module.Handler.ListUserLabelsHandler(ctx, "user-1")
	if err != nil {
		t.Fatalf("list user labels failed: %v", err)
	}
	if len(rendered.Items) != 0 {
		t.Fatalf("expected no labels after unassign, got %d", len(rendered.Items))
	}
}

func TestLabelPresetColorAndNameConflict(t *testing.T) {
	module := labelregistry.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	designer, err := module.Handler.CreateLabelHandler(ctx, httptransport.CreateLabelRequest{Name: "Designer"})
	if err != nil {
		t.Fatalf("create label failed: %v", err)
	}
	if designer.Label.DefaultColor != "#8b5cf6" {
		t.Fatalf("preset color: got %s", designer.Label.DefaultColor)
	}

	misc, err := module.Handler.CreateLabelHandler(ctx, httptransport.CreateLabelRequest{Name: "collector"})
	if err != nil {
		t.Fatalf("create label failed: %v", err)
	}
	if misc.Label.DefaultColor != "#0070f3" {
		t.Fatalf("fallback color: got %s", misc.Label.DefaultColor)
	}

	if _, err := module.Handler.CreateLabelHandler(ctx, httptransport.CreateLabelRequest{Name: "Designer"}); !errors.Is(err, domainerrors.ErrLabelNameTaken) {
		t.Fatalf("duplicate name: got %v, want ErrLabelNameTaken", err)
	}
}

func TestLabelUpdateAndDelete(t *testing.T) {
	module := labelregistry.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	created, err := module.Handler.CreateLabelHandler(ctx, httptransport.CreateLabelRequest{Name: "editor"})
	if err != nil {
		t.Fatalf("create label failed: %v", err)
	}

	updated, err := module.Handler.UpdateLabelHandler(ctx, created.Label.LabelID, httptransport.UpdateLabelRequest{
		DefaultColor: strPtr("#222222"),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Label.Name != "editor" || updated.Label.DefaultColor != "#222222" {
		t.Fatalf("partial update broke the label: %+v", updated.Label)
	}

	if err := module.Handler.DeleteLabelHandler(ctx, created.Label.LabelID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := module.Handler.UpdateLabelHandler(ctx, created.Label.LabelID, httptransport.UpdateLabelRequest{}); !errors.Is(err, domainerrors.ErrLabelNotFound) {
		t.Fatalf("update after delete: got %v, want ErrLabelNotFound", err)
	}
}

package httpadapter

import (
	"context"
	"log/slog"

	"tradepost/contexts/trust-core/label-registry/application"
	"tradepost/contexts/trust-core/label-registry/ports"
	httptransport "tradepost/contexts/trust-core/label-registry/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateLabelHandler(ctx context.Context, req httptransport.CreateLabelRequest) (httptransport.LabelResponse, error) {
	label, err := h.Service.CreateLabel(ctx, application.CreateLabelInput{
		Name:         req.Name,
		DefaultColor: req.DefaultColor,
	})
	if err != nil {
		return httptransport.LabelResponse{}, err
	}
	return httptransport.LabelResponse{Label: mapLabel(label)}, nil
}

func (h Handler) UpdateLabelHandler(ctx context.Context, labelID string, req httptransport.UpdateLabelRequest) (httptransport.LabelResponse, error) {
	label, err := h.Service.UpdateLabel(ctx, labelID, application.UpdateLabelInput{
		Name:         req.Name,
		DefaultColor: req.DefaultColor,
	})
	if err != nil {
		return httptransport.LabelResponse{}, err
	}
	return httptransport.LabelResponse{Label: mapLabel(label)}, nil
}

func (h Handler) DeleteLabelHandler(ctx context.Context, labelID string) error {
	return h.Service.DeleteLabel(ctx, labelID)
}

func (h Handler) ListLabelsHandler(ctx context.Context) (httptransport.ListLabelsResponse, error) {
	labels, err := h.Service.ListLabels(ctx)
	if err != nil {
		return httptransport.ListLabelsResponse{}, err
	}
	items := make([]httptransport.LabelDTO, 0, len(labels))
	for _, label := range labels {
		items = append(items, mapLabel(label))
	}
	return httptransport.ListLabelsResponse{Items: items}, nil
}

func (h Handler) AssignLabelHandler(ctx context.Context, userID string, labelID string, req httptransport.AssignLabelRequest) (httptransport.AssignmentResponse, error) {
	assignment, err := h.Service.AssignLabel(ctx, application.AssignLabelInput{
		UserID:      userID,
		LabelID:     labelID,
		CustomColor: req.CustomColor,
	})
	if err != nil {
		return httptransport.AssignmentResponse{}, err
	}
	return httptransport.AssignmentResponse{
		Assignment: httptransport.AssignmentDTO{
			UserID:      assignment.UserID,
			LabelID:     assignment.LabelID,
			CustomColor: assignment.CustomColor,
		},
	}, nil
}

func (h Handler) UnassignLabelHandler(ctx context.Context, userID string, labelID string) error {
	return h.Service.UnassignLabel(ctx, userID, labelID)
}

func (h Handler) ListUserLabelsHandler(ctx context.Context, userID string) (httptransport.ListUserLabelsResponse, error) {
	labels, err := h.Service.ListUserLabels(ctx, userID)
	if err != nil {
		return httptransport.ListUserLabelsResponse{}, err
	}
	items := make([]httptransport.UserLabelDTO, 0, len(labels))
	for _, label := range labels {
		items = append(items, httptransport.UserLabelDTO{
			LabelID: label.LabelID,
			Name:    label.Name,
			Color:   label.Color,
		})
	}
	return httptransport.ListUserLabelsResponse{Items: items}, nil
}

func mapLabel(label ports.Label) httptransport.LabelDTO {
	return httptransport.LabelDTO{
		LabelID:      label.LabelID,
		Name:         label.Name,
		DefaultColor: label.DefaultColor,
	}
}

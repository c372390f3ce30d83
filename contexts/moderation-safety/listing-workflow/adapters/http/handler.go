package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"

	"tradepost/contexts/moderation-safety/listing-workflow/application/commands"
	"tradepost/contexts/moderation-safety/listing-workflow/application/queries"
	"tradepost/contexts/moderation-safety/listing-workflow/domain/entities"
	domainerrors "tradepost/contexts/moderation-safety/listing-workflow/domain/errors"
	httptransport "tradepost/contexts/moderation-safety/listing-workflow/transport/http"
)

type Handler struct {
	Submit   commands.SubmitRequestUseCase
	Edit     commands.EditRequestUseCase
	Review   commands.ReviewRequestUseCase
	Complete commands.CompleteRequestUseCase
	Queries  queries.QueryUseCase
	Logger   *slog.Logger
}

func (h Handler) SubmitHandler(ctx context.Context, body httptransport.SubmitRequestBody) (httptransport.RequestResponse, error) {
	formData, err := decodeFormData(body.FormData)
	if err != nil {
		return httptransport.RequestResponse{}, err
	}
	request, err := h.Submit.Execute(ctx, commands.SubmitRequestCommand{
		SubmitterID: body.SubmitterID,
		Section:     body.Section,
		FormData:    formData,
		ExpiresAt:   body.ExpiresAt,
	})
	if err != nil {
		return httptransport.RequestResponse{}, err
	}
	return httptransport.RequestResponse{Request: mapRequest(request)}, nil
}

func (h Handler) EditHandler(ctx context.Context, requestID string, body httptransport.EditRequestBody) (httptransport.RequestResponse, error) {
	var formData entities.FormData
	if len(body.FormData) > 0 {
		decoded, err := decodeFormData(body.FormData)
		if err != nil {
			return httptransport.RequestResponse{}, err
		}
		if len(decoded) == 0 {
			return httptransport.RequestResponse{}, domainerrors.ErrEmptyFormData
		}
		formData = decoded
	}
	request, err := h.Edit.Execute(ctx, commands.EditRequestCommand{
		RequestID: requestID,
		Section:   body.Section,
		FormData:  formData,
		AdminNote: body.AdminNote,
	})
	if err != nil {
		return httptransport.RequestResponse{}, err
	}
	return httptransport.RequestResponse{Request: mapRequest(request)}, nil
}

func (h Handler) ApproveHandler(ctx context.Context, requestID string, body httptransport.ApproveRequestBody) (httptransport.ApproveResponse, error) {
	result, err := h.Review.Approve(ctx, commands.ApproveRequestCommand{
		RequestID:       requestID,
		PublishedItemID: body.PublishedItemID,
		AdminNote:       body.AdminNote,
	})
	if err != nil {
		return httptransport.ApproveResponse{}, err
	}
	return httptransport.ApproveResponse{
		Request:        mapRequest(result.Request),
		PublishPending: result.PublishPending,
	}, nil
}

func (h Handler) RejectHandler(ctx context.Context, requestID string, body httptransport.RejectRequestBody) (httptransport.RequestResponse, error) {
	request, err := h.Review.Reject(ctx, commands.RejectRequestCommand{
		RequestID: requestID,
		AdminNote: body.AdminNote,
	})
	if err != nil {
		return httptransport.RequestResponse{}, err
	}
	return httptransport.RequestResponse{Request: mapRequest(request)}, nil
}

func (h Handler) CompleteHandler(ctx context.Context, requestID string, body httptransport.CompleteRequestBody) (httptransport.RequestResponse, error) {
	request, err := h.Complete.Execute(ctx, commands.CompleteRequestCommand{
		RequestID: requestID,
		OwnerID:   body.OwnerID,
	})
	if err != nil {
		return httptransport.RequestResponse{}, err
	}
	return httptransport.RequestResponse{Request: mapRequest(request)}, nil
}

func (h Handler) GetRequestHandler(ctx context.Context, requestID string) (httptransport.RequestResponse, error) {
	request, err := h.Queries.GetRequest(ctx, requestID)
	if err != nil {
		return httptransport.RequestResponse{}, err
	}
	return httptransport.RequestResponse{Request: mapRequest(request)}, nil
}

func (h Handler) ListRequestsHandler(ctx context.Context, status, section string, limit, offset int) (httptransport.RequestListResponse, error) {
	items, err := h.Queries.ListRequests(ctx, queries.ListRequestsQuery{
		Status:  status,
		Section: section,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return httptransport.RequestListResponse{}, err
	}
	response := httptransport.RequestListResponse{Items: make([]httptransport.RequestDTO, 0, len(items))}
	for _, item := range items {
		response.Items = append(response.Items, mapRequest(item))
	}
	return response, nil
}

func (h Handler) MyPublicationsHandler(ctx context.Context, submitterID, cursor string, limit int) (httptransport.PublicationListResponse, error) {
	page, err := h.Queries.MyPublications(ctx, queries.MyPublicationsQuery{
		SubmitterID: submitterID,
		Limit:       limit,
		Cursor:      cursor,
	})
	if err != nil {
		return httptransport.PublicationListResponse{}, err
	}
	response := httptransport.PublicationListResponse{
		Items:      make([]httptransport.PublicationDTO, 0, len(page.Items)),
		NextCursor: page.NextCursor,
	}
	for _, view := range page.Items {
		response.Items = append(response.Items, httptransport.PublicationDTO{
			RequestDTO:        mapRequest(view.Request),
			PublicationStatus: string(view.PublicationStatus),
		})
	}
	return response, nil
}

func decodeFormData(raw json.RawMessage) (entities.FormData, error) {
	if len(raw) == 0 {
		return nil, domainerrors.ErrEmptyFormData
	}
	var formData entities.FormData
	if err := json.Unmarshal(raw, &formData); err != nil {
		return nil, domainerrors.ErrInvalidInput
	}
	return formData, nil
}

func mapRequest(request entities.Request) httptransport.RequestDTO {
	form, err := json.Marshal(request.FormData)
	if err != nil {
		form = []byte("{}")
	}
	return httptransport.RequestDTO{
		RequestID:       request.RequestID,
		SubmitterID:     request.SubmitterID,
		Section:         string(request.Section),
		FormData:        form,
		Status:          string(request.Status),
		AdminNote:       request.AdminNote,
		PublishedItemID: request.PublishedItemID,
		ProcessedAt:     request.ProcessedAt,
		ExpiresAt:       request.ExpiresAt,
		CompletedAt:     request.CompletedAt,
		CreatedAt:       request.CreatedAt,
		UpdatedAt:       request.UpdatedAt,
	}
}

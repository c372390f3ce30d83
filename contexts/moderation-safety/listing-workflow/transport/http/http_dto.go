package http

import (
	"encoding/json"
	"time"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SubmitRequestBody struct {
	SubmitterID string          `json:"submitterId"`
	Section     string          `json:"section"`
	FormData    json.RawMessage `json:"formData"`
	ExpiresAt   *time.Time      `json:"expiresAt,omitempty"`
}

type EditRequestBody struct {
	Section   string          `json:"section,omitempty"`
	FormData  json.RawMessage `json:"formData,omitempty"`
	AdminNote *string         `json:"adminNote,omitempty"`
}

type ApproveRequestBody struct {
	PublishedItemID string `json:"publishedItemId,omitempty"`
	AdminNote       string `json:"adminNote,omitempty"`
}

type RejectRequestBody struct {
	AdminNote string `json:"adminNote,omitempty"`
}

type CompleteRequestBody struct {
	OwnerID string `json:"ownerId,omitempty"`
}

type RequestDTO struct {
	RequestID       string          `json:"requestId"`
	SubmitterID     string          `json:"submitterId"`
	Section         string          `json:"section"`
	FormData        json.RawMessage `json:"formData"`
	Status          string          `json:"status"`
	AdminNote       string          `json:"adminNote,omitempty"`
	PublishedItemID string          `json:"publishedItemId,omitempty"`
	ProcessedAt     *time.Time      `json:"processedAt,omitempty"`
	ExpiresAt       *time.Time      `json:"expiresAt,omitempty"`
	CompletedAt     *time.Time      `json:"completedAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type RequestResponse struct {
	Request RequestDTO `json:"request"`
}

type ApproveResponse struct {
	Request        RequestDTO `json:"request"`
	PublishPending bool       `json:"publishPending,omitempty"`
}

type RequestListResponse struct {
	Items []RequestDTO `json:"items"`
}

type PublicationDTO struct {
	RequestDTO
	PublicationStatus string `json:"publicationStatus"`
}

type PublicationListResponse struct {
	Items      []PublicationDTO `json:"items"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateLabelRequest struct {
	Name         string `json:"name"`
	DefaultColor string `json:"default_color"`
}

type UpdateLabelRequest struct {
	Name         *string `json:"name"`
	DefaultColor *string `json:"default_color"`
}

type AssignLabelRequest struct {
	CustomColor *string `json:"custom_color"`
}

type LabelDTO struct {
	LabelID      string `json:"label_id"`
	Name         string `json:"name"`
	DefaultColor string `json:"default_color"`
}

type AssignmentDTO struct {
	UserID      string  `json:"user_id"`
	LabelID     string  `json:"label_id"`
	CustomColor *string `json:"custom_color"`
}

type UserLabelDTO struct {
	LabelID string `json:"label_id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
}

type LabelResponse struct {
	Label LabelDTO `json:"label"`
}

type ListLabelsResponse struct {
	Items []LabelDTO `json:"items"`
}

type AssignmentResponse struct {
	Assignment AssignmentDTO `json:"assignment"`
}

type ListUserLabelsResponse struct {
	Items []UserLabelDTO `json:"items"`
}

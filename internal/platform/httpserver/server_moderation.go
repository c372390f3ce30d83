package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	moderrors "tradepost/contexts/moderation-safety/listing-workflow/domain/errors"
	modhttp "tradepost/contexts/moderation-safety/listing-workflow/transport/http"
)

func writeModerationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, modhttp.ErrorResponse{Code: code, Message: message})
}

func writeModerationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, moderrors.ErrInvalidSection):
		writeModerationError(w, http.StatusBadRequest, "invalid_section", err.Error())
	case errors.Is(err, moderrors.ErrEmptyFormData):
		writeModerationError(w, http.StatusBadRequest, "empty_form_data", err.Error())
	case errors.Is(err, moderrors.ErrInvalidInput),
		errors.Is(err, moderrors.ErrInvalidCursor):
		writeModerationError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, moderrors.ErrRequestNotFound):
		writeModerationError(w, http.StatusNotFound, "request_not_found", err.Error())
	case errors.Is(err, moderrors.ErrInvalidStatusTransition):
		writeModerationError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, moderrors.ErrNotRequestOwner):
		writeModerationError(w, http.StatusForbidden, "not_request_owner", err.Error())
	case errors.Is(err, moderrors.ErrStoreUnavailable):
		writeModerationError(w, http.StatusServiceUnavailable, "store_unavailable", "moderation store unavailable")
	default:
		writeModerationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	var body modhttp.SubmitRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeModerationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if strings.TrimSpace(body.SubmitterID) == "" {
		body.SubmitterID = r.Header.Get("X-User-Id")
	}
	resp, err := s.moderation.Handler.SubmitHandler(r.Context(), body)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	resp, err := s.moderation.Handler.GetRequestHandler(r.Context(), r.PathValue("request_id"))
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, ok := parseModerationInt(w, query.Get("limit"), "invalid_limit")
	if !ok {
		return
	}
	offset, ok := parseModerationInt(w, query.Get("offset"), "invalid_offset")
	if !ok {
		return
	}
	resp, err := s.moderation.Handler.ListRequestsHandler(r.Context(), query.Get("status"), query.Get("section"), limit, offset)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEditRequest(w http.ResponseWriter, r *http.Request) {
	var body modhttp.EditRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeModerationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.moderation.Handler.EditHandler(r.Context(), r.PathValue("request_id"), body)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApproveRequest(w http.ResponseWriter, r *http.Request) {
	body := modhttp.ApproveRequestBody{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeModerationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}
	resp, err := s.moderation.Handler.ApproveHandler(r.Context(), r.PathValue("request_id"), body)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRejectRequest(w http.ResponseWriter, r *http.Request) {
	body := modhttp.RejectRequestBody{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeModerationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}
	resp, err := s.moderation.Handler.RejectHandler(r.Context(), r.PathValue("request_id"), body)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCompleteRequest(w http.ResponseWriter, r *http.Request) {
	body := modhttp.CompleteRequestBody{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeModerationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}
	if strings.TrimSpace(body.OwnerID) == "" {
		body.OwnerID = r.Header.Get("X-User-Id")
	}
	resp, err := s.moderation.Handler.CompleteHandler(r.Context(), r.PathValue("request_id"), body)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMyPublications(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, ok := parseModerationInt(w, query.Get("limit"), "invalid_limit")
	if !ok {
		return
	}
	resp, err := s.moderation.Handler.MyPublicationsHandler(r.Context(), r.PathValue("user_id"), query.Get("cursor"), limit)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseModerationInt(w http.ResponseWriter, raw string, code string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		writeModerationError(w, http.StatusBadRequest, code, "value must be an integer")
		return 0, false
	}
	return value, true
}

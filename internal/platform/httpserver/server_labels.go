package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	labelerrors "tradepost/contexts/trust-core/label-registry/domain/errors"
	labelhttp "tradepost/contexts/trust-core/label-registry/transport/http"
)

func writeLabelError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, labelhttp.ErrorResponse{Code: code, Message: message})
}

func writeLabelDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, labelerrors.ErrInvalidRequest):
		writeLabelError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, labelerrors.ErrLabelNotFound):
		writeLabelError(w, http.StatusNotFound, "label_not_found", err.Error())
	case errors.Is(err, labelerrors.ErrLabelNameTaken):
		writeLabelError(w, http.StatusConflict, "label_name_taken", err.Error())
	case errors.Is(err, labelerrors.ErrStoreUnavailable):
		writeLabelError(w, http.StatusServiceUnavailable, "store_unavailable", "label store unavailable")
	default:
		writeLabelError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleCreateLabel(w http.ResponseWriter, r *http.Request) {
	var req labelhttp.CreateLabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLabelError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.labels.Handler.CreateLabelHandler(r.Context(), req)
	if err != nil {
		writeLabelDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateLabel(w http.ResponseWriter, r *http.Request) {
	var req labelhttp.UpdateLabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLabelError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.labels.Handler.UpdateLabelHandler(r.Context(), r.PathValue("label_id"), req)
	if err != nil {
		writeLabelDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteLabel(w http.ResponseWriter, r *http.Request) {
	if err := s.labels.Handler.DeleteLabelHandler(r.Context(), r.PathValue("label_id")); err != nil {
		writeLabelDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListLabels(w http.ResponseWriter, r *http.Request) {
	resp, err := s.labels.Handler.ListLabelsHandler(r.Context())
	if err != nil {
		writeLabelDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAssignLabel(w http.ResponseWriter, r *http.Request) {
	var req labelhttp.AssignLabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLabelError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.labels.Handler.AssignLabelHandler(r.Context(), r.PathValue("user_id"), r.PathValue("label_id"), req)
	if err != nil {
		writeLabelDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUnassignLabel(w http.ResponseWriter, r *http.Request) {
	if err := s.labels.Handler.UnassignLabelHandler(r.Context(), r.PathValue("user_id"), r.PathValue("label_id")); err != nil {
		writeLabelDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListUserLabels(w http.ResponseWriter, r *http.Request) {
	resp, err := s.labels.Handler.ListUserLabelsHandler(r.Context(), r.PathValue("user_id"))
	if err != nil {
		writeLabelDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

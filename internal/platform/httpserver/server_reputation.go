package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	reputationentities "tradepost/contexts/trust-core/reputation-service/domain/entities"
	reputationerrors "tradepost/contexts/trust-core/reputation-service/domain/errors"
	reputationhttp "tradepost/contexts/trust-core/reputation-service/transport/http"
)

func writeReputationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, reputationhttp.ErrorResponse{Code: code, Message: message})
}

func writeReputationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reputationerrors.ErrInvalidInput),
		errors.Is(err, reputationerrors.ErrUnknownCounterField):
		writeReputationError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, reputationerrors.ErrInvalidCursor):
		writeReputationError(w, http.StatusBadRequest, "invalid_cursor", err.Error())
	case errors.Is(err, reputationerrors.ErrUserNotFound):
		writeReputationError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, reputationerrors.ErrStoreUnavailable):
		writeReputationError(w, http.StatusServiceUnavailable, "store_unavailable", "reputation store unavailable")
	default:
		writeReputationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleTrackUser(w http.ResponseWriter, r *http.Request) {
	var req reputationhttp.TrackUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeReputationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.reputation.Handler.TrackUserHandler(r.Context(), req)
	if err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	resp, err := s.reputation.Handler.GetProfileHandler(r.Context(), r.PathValue("user_id"))
	if err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProfileByExternalID(w http.ResponseWriter, r *http.Request) {
	resp, err := s.reputation.Handler.GetProfileByExternalIDHandler(r.Context(), r.PathValue("external_id"))
	if err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApplyCounterDelta(w http.ResponseWriter, r *http.Request) {
	var req reputationhttp.ApplyDeltaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeReputationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.reputation.Handler.ApplyDeltaHandler(r.Context(), r.PathValue("user_id"), r.PathValue("field"), req)
	if err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecordProfileView(w http.ResponseWriter, r *http.Request) {
	var req reputationhttp.RecordProfileViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeReputationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.reputation.Handler.RecordProfileViewHandler(r.Context(), r.PathValue("user_id"), req); err != nil {
		writeReputationDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetManualDelta(w http.ResponseWriter, r *http.Request) {
	var req reputationhttp.SetManualDeltaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeReputationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.reputation.Handler.SetManualDeltaHandler(r.Context(), r.PathValue("user_id"), req)
	if err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetVerified(w http.ResponseWriter, r *http.Request) {
	s.handleSetTrustFlag(w, r, reputationentities.TrustFlagVerified)
}

func (s *Server) handleSetScam(w http.ResponseWriter, r *http.Request) {
	s.handleSetTrustFlag(w, r, reputationentities.TrustFlagScam)
}

func (s *Server) handleSetBlocked(w http.ResponseWriter, r *http.Request) {
	s.handleSetTrustFlag(w, r, reputationentities.TrustFlagBlocked)
}

func (s *Server) handleSetTrustFlag(w http.ResponseWriter, r *http.Request, flag reputationentities.TrustFlag) {
	var req reputationhttp.SetTrustFlagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeReputationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.reputation.Handler.SetTrustFlagHandler(r.Context(), r.PathValue("user_id"), flag, req)
	if err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := 0
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeReputationError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}
	resp, err := s.reputation.Handler.LeaderboardHandler(r.Context(), query.Get("cursor"), limit)
	if err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

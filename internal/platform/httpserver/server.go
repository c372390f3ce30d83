package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	listingworkflow "tradepost/contexts/moderation-safety/listing-workflow"
	labelregistry "tradepost/contexts/trust-core/label-registry"
	reputationservice "tradepost/contexts/trust-core/reputation-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "tradepost/internal/platform/httpserver/docs"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	reputation reputationservice.Module
	labels     labelregistry.Module
	moderation listingworkflow.Module
}

func New(
	reputation reputationservice.Module,
	labels labelregistry.Module,
	moderation listingworkflow.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		reputation: reputation,
		labels:     labels,
		moderation: moderation,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/users/track", s.handleTrackUser)
	s.mux.HandleFunc("GET /v1/users/{user_id}/profile", s.handleGetProfile)
	s.mux.HandleFunc("GET /v1/users/by-external/{external_id}/profile", s.handleGetProfileByExternalID)
	s.mux.HandleFunc("POST /v1/users/{user_id}/counters/{field}", s.handleApplyCounterDelta)
	s.mux.HandleFunc("POST /v1/users/{user_id}/profile-views", s.handleRecordProfileView)
	s.mux.HandleFunc("PATCH /v1/admin/users/{user_id}/rating", s.handleSetManualDelta)
	s.mux.HandleFunc("PATCH /v1/admin/users/{user_id}/verified", s.handleSetVerified)
	s.mux.HandleFunc("PATCH /v1/admin/users/{user_id}/scam", s.handleSetScam)
	s.mux.HandleFunc("PATCH /v1/admin/users/{user_id}/blocked", s.handleSetBlocked)
	s.mux.HandleFunc("GET /v1/leaderboard", s.handleLeaderboard)

	s.mux.HandleFunc("GET /v1/admin/labels", s.handleListLabels)
	s.mux.HandleFunc("POST /v1/admin/labels", s.handleCreateLabel)
	s.mux.HandleFunc("PATCH /v1/admin/labels/{label_id}", s.handleUpdateLabel)
	s.mux.HandleFunc("DELETE /v1/admin/labels/{label_id}", s.handleDeleteLabel)
	s.mux.HandleFunc("GET /v1/users/{user_id}/labels", s.handleListUserLabels)
	s.mux.HandleFunc("PUT /v1/admin/users/{user_id}/labels/{label_id}", s.handleAssignLabel)
	s.mux.HandleFunc("DELETE /v1/admin/users/{user_id}/labels/{label_id}", s.handleUnassignLabel)

	s.mux.HandleFunc("POST /v1/moderation/requests", s.handleSubmitRequest)
	s.mux.HandleFunc("GET /v1/moderation/requests", s.handleListRequests)
	s.mux.HandleFunc("GET /v1/moderation/requests/{request_id}", s.handleGetRequest)
	s.mux.HandleFunc("PATCH /v1/moderation/requests/{request_id}", s.handleEditRequest)
	s.mux.HandleFunc("POST /v1/moderation/requests/{request_id}/approve", s.handleApproveRequest)
	s.mux.HandleFunc("POST /v1/moderation/requests/{request_id}/reject", s.handleRejectRequest)
	s.mux.HandleFunc("POST /v1/moderation/requests/{request_id}/complete", s.handleCompleteRequest)
	s.mux.HandleFunc("GET /v1/users/{user_id}/publications", s.handleMyPublications)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

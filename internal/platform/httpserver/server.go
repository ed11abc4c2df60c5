package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	commission "electorate/contexts/election-operations/commission-service"
	commissionerrors "electorate/contexts/election-operations/commission-service/domain/errors"
	commissionhttp "electorate/contexts/election-operations/commission-service/transport/http"
	electionengine "electorate/contexts/election-operations/election-engine"
	electionerrors "electorate/contexts/election-operations/election-engine/domain/errors"
	electionhttp "electorate/contexts/election-operations/election-engine/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "electorate/internal/platform/httpserver/docs"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	election   electionengine.Module
	commission commission.Module
}

func New(
	electionModule electionengine.Module,
	commissionModule commission.Module,
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
		election:   electionModule,
		commission: commissionModule,
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

	s.mux.HandleFunc("POST /v1/election", s.handleCreateElection)
	s.mux.HandleFunc("GET /v1/election", s.handleElectionDetails)
	s.mux.HandleFunc("POST /v1/election/end", s.handleEndElection)
	s.mux.HandleFunc("POST /v1/election/results/publish", s.handlePublishResults)
	s.mux.HandleFunc("GET /v1/election/results", s.handleElectionResults)
	s.mux.HandleFunc("GET /v1/election/stats", s.handleVotingStats)
	s.mux.HandleFunc("POST /v1/election/pause", s.handlePauseElection)
	s.mux.HandleFunc("POST /v1/election/resume", s.handleResumeElection)

	s.mux.HandleFunc("POST /v1/candidates", s.handleRegisterCandidate)
	s.mux.HandleFunc("GET /v1/candidates", s.handleAllCandidates)
	s.mux.HandleFunc("GET /v1/candidates/{candidate_id}", s.handleCandidateDetails)

	s.mux.HandleFunc("POST /v1/voters", s.handleRegisterVoter)
	s.mux.HandleFunc("GET /v1/voters/{principal}", s.handleVoterStatus)

	s.mux.HandleFunc("POST /v1/votes", s.handleCastVote)

	s.mux.HandleFunc("GET /v1/commission/roster", s.handleRoster)
	s.mux.HandleFunc("GET /v1/commission/roles/{principal}", s.handleRoleCheck)
	s.mux.HandleFunc("POST /v1/commission/registrars", s.handleGrantRegistrar)
	s.mux.HandleFunc("POST /v1/commission/registrars/revoke", s.handleRevokeRegistrar)
	s.mux.HandleFunc("POST /v1/commission/authority/transfer", s.handleTransferAuthority)
}

func (s *Server) handleCreateElection(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}
	var req electionhttp.CreateElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.election.Handler.CreateElectionHandler(r.Context(), actor, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleElectionDetails(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.ElectionDetailsHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEndElection(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}
	resp, err := s.election.Handler.EndElectionHandler(r.Context(), actor)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePublishResults(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}
	resp, err := s.election.Handler.PublishResultsHandler(r.Context(), actor)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleElectionResults(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.ElectionResultsHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVotingStats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.VotingStatsHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePauseElection(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}
	if err := s.election.Handler.PauseHandler(r.Context(), actor); err != nil {
		writeElectionDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResumeElection(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}
	if err := s.election.Handler.ResumeHandler(r.Context(), actor); err != nil {
		writeElectionDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRegisterCandidate(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}
	var req electionhttp.RegisterCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.election.Handler.RegisterCandidateHandler(r.Context(), actor, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleAllCandidates(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.AllCandidatesHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCandidateDetails(w http.ResponseWriter, r *http.Request) {
	candidateID, err := strconv.ParseUint(r.PathValue("candidate_id"), 10, 64)
	if err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_candidate_id", "candidate_id must be an unsigned integer")
		return
	}
	resp, err := s.election.Handler.CandidateDetailsHandler(r.Context(), candidateID)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegisterVoter(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}
	var req electionhttp.RegisterVoterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.election.Handler.RegisterVoterHandler(r.Context(), actor, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleVoterStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.VoterStatusHandler(r.Context(), r.PathValue("principal"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requirePrincipal(w, r)
	if !ok {
		return
	}
	var req electionhttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.election.Handler.CastVoteHandler(r.Context(), actor, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	resp, err := s.commission.Handler.RosterHandler(r.Context())
	if err != nil {
		writeCommissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRoleCheck(w http.ResponseWriter, r *http.Request) {
	resp, err := s.commission.Handler.RoleCheckHandler(r.Context(), r.PathValue("principal"))
	if err != nil {
		writeCommissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGrantRegistrar(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireCommissionPrincipal(w, r)
	if !ok {
		return
	}
	var req commissionhttp.GrantRegistrarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCommissionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.commission.Handler.GrantRegistrarHandler(r.Context(), actor, req)
	if err != nil {
		writeCommissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRevokeRegistrar(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireCommissionPrincipal(w, r)
	if !ok {
		return
	}
	var req commissionhttp.RevokeRegistrarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCommissionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.commission.Handler.RevokeRegistrarHandler(r.Context(), actor, req); err != nil {
		writeCommissionDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTransferAuthority(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireCommissionPrincipal(w, r)
	if !ok {
		return
	}
	var req commissionhttp.TransferAuthorityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCommissionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.commission.Handler.TransferAuthorityHandler(r.Context(), actor, req); err != nil {
		writeCommissionDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requirePrincipal(w http.ResponseWriter, r *http.Request) (string, bool) {
	principal := strings.TrimSpace(r.Header.Get("X-Principal-Id"))
	if principal == "" {
		writeElectionError(w, http.StatusUnauthorized, "missing_principal", "X-Principal-Id header is required")
		return "", false
	}
	return principal, true
}

func (s *Server) requireCommissionPrincipal(w http.ResponseWriter, r *http.Request) (string, bool) {
	principal := strings.TrimSpace(r.Header.Get("X-Principal-Id"))
	if principal == "" {
		writeCommissionError(w, http.StatusUnauthorized, "missing_principal", "X-Principal-Id header is required")
		return "", false
	}
	return principal, true
}

func writeElectionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, electionerrors.ErrUnauthorized):
		writeElectionError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, electionerrors.ErrInvalidInput):
		writeElectionError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, electionerrors.ErrElectionActive):
		writeElectionError(w, http.StatusConflict, "election_active", err.Error())
	case errors.Is(err, electionerrors.ErrInvalidState):
		writeElectionError(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, electionerrors.ErrTimingViolation):
		writeElectionError(w, http.StatusUnprocessableEntity, "timing_violation", err.Error())
	case errors.Is(err, electionerrors.ErrVoterAlreadyRegistered):
		writeElectionError(w, http.StatusConflict, "voter_already_registered", err.Error())
	case errors.Is(err, electionerrors.ErrVoterNotRegistered):
		writeElectionError(w, http.StatusForbidden, "voter_not_registered", err.Error())
	case errors.Is(err, electionerrors.ErrAlreadyVoted):
		writeElectionError(w, http.StatusConflict, "already_voted", err.Error())
	case errors.Is(err, electionerrors.ErrVotingClosed):
		writeElectionError(w, http.StatusConflict, "voting_closed", err.Error())
	case errors.Is(err, electionerrors.ErrInvalidCandidate):
		writeElectionError(w, http.StatusUnprocessableEntity, "invalid_candidate", err.Error())
	case errors.Is(err, electionerrors.ErrCandidateNotFound):
		writeElectionError(w, http.StatusNotFound, "candidate_not_found", err.Error())
	case errors.Is(err, electionerrors.ErrResultsNotPublished):
		writeElectionError(w, http.StatusNotFound, "results_not_published", err.Error())
	default:
		writeElectionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCommissionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, commissionerrors.ErrUnauthorized):
		writeCommissionError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, commissionerrors.ErrInvalidPrincipal):
		writeCommissionError(w, http.StatusBadRequest, "invalid_principal", err.Error())
	case errors.Is(err, commissionerrors.ErrRegistrarAlreadyGranted):
		writeCommissionError(w, http.StatusConflict, "registrar_already_granted", err.Error())
	case errors.Is(err, commissionerrors.ErrRegistrarNotGranted):
		writeCommissionError(w, http.StatusNotFound, "registrar_not_granted", err.Error())
	default:
		writeCommissionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeElectionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, electionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeCommissionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, commissionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

package httpserver

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	commission "electorate/contexts/election-operations/commission-service"
	electionengine "electorate/contexts/election-operations/election-engine"
)

func newTestServer() *Server {
	commissionModule := commission.NewInMemoryModule("authority-1", nil)
	electionModule := electionengine.NewInMemoryModule("authority-1", nil)
	return New(electionModule, commissionModule, nil, ":0")
}

func TestCreateElectionRequiresPrincipalHeader(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/v1/election", bytes.NewReader([]byte(`{"title":"General","duration_hours":2}`)))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreateElectionRejectsNonAuthority(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/v1/election", bytes.NewReader([]byte(`{"title":"General","duration_hours":2}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Principal-Id", "stranger")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreateElectionSucceedsForAuthority(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/v1/election", bytes.NewReader([]byte(`{"title":"General","duration_hours":2}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Principal-Id", "authority-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCastVoteRejectsUnregisteredVoter(t *testing.T) {
	server := newTestServer()

	create := httptest.NewRequest(http.MethodPost, "/v1/election", bytes.NewReader([]byte(`{"title":"General","duration_hours":2}`)))
	create.Header.Set("Content-Type", "application/json")
	create.Header.Set("X-Principal-Id", "authority-1")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, create)
	if rr.Code != http.StatusCreated {
		t.Fatalf("election create failed: %d body=%s", rr.Code, rr.Body.String())
	}

	vote := httptest.NewRequest(http.MethodPost, "/v1/votes", bytes.NewReader([]byte(`{"candidate_id":0}`)))
	vote.Header.Set("Content-Type", "application/json")
	vote.Header.Set("X-Principal-Id", "stranger")
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, vote)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCandidateDetailsRejectsMalformedID(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/v1/candidates/not-a-number", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGrantRegistrarRejectsNonAuthority(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/v1/commission/registrars", bytes.NewReader([]byte(`{"principal":"registrar-1"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Principal-Id", "stranger")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestResultsHiddenUntilPublished(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/v1/election/results", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

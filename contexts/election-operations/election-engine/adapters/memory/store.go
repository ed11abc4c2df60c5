package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"electorate/contexts/election-operations/election-engine/domain/entities"
	"electorate/contexts/election-operations/election-engine/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store keeps the whole aggregate behind one RWMutex so queries observe
// consistent snapshots and multi-row command writes are atomic. It also
// carries a roster projection (authority + registrars) so the module can be
// exercised without the commission module wired in.
type Store struct {
	mu sync.RWMutex

	election    entities.Election
	hasElection bool
	counters    entities.Counters
	candidates  map[uint64]entities.Candidate
	voters      map[string]entities.Voter
	outbox      map[string]outboxRecord

	authority  string
	registrars map[string]bool
}

func NewStore() *Store {
	return &Store{
		candidates: make(map[uint64]entities.Candidate),
		voters:     make(map[string]entities.Voter),
		outbox:     make(map[string]outboxRecord),
		registrars: make(map[string]bool),
	}
}

// SetAuthority seeds the roster projection.
func (s *Store) SetAuthority(principal string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authority = strings.TrimSpace(principal)
}

// GrantRegistrar seeds the roster projection.
func (s *Store) GrantRegistrar(principal string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registrars[strings.TrimSpace(principal)] = true
}

func (s *Store) IsAuthority(_ context.Context, principal string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authority != "" && s.authority == strings.TrimSpace(principal), nil
}

func (s *Store) IsRegistrar(_ context.Context, principal string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	trimmed := strings.TrimSpace(principal)
	if s.authority != "" && s.authority == trimmed {
		return true, nil
	}
	return s.registrars[trimmed], nil
}

func (s *Store) GetElection(_ context.Context) (entities.Election, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasElection {
		return entities.Election{}, false, nil
	}
	return cloneElection(s.election), true, nil
}

func (s *Store) GetCounters(_ context.Context) (entities.Counters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters, nil
}

func (s *Store) CreateGeneration(
	_ context.Context,
	election entities.Election,
	counters entities.Counters,
	envelope ports.EventEnvelope,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.candidates = make(map[uint64]entities.Candidate)
	s.election = cloneElection(election)
	s.hasElection = true
	s.counters = counters
	return s.appendOutboxLocked(envelope)
}

func (s *Store) SaveElection(_ context.Context, election entities.Election, envelope *ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.election = cloneElection(election)
	s.hasElection = true
	if envelope == nil {
		return nil
	}
	return s.appendOutboxLocked(*envelope)
}

func (s *Store) AddCandidate(
	_ context.Context,
	candidate entities.Candidate,
	election entities.Election,
	counters entities.Counters,
	envelope ports.EventEnvelope,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.candidates[candidate.ID] = candidate
	s.election = cloneElection(election)
	s.hasElection = true
	s.counters = counters
	return s.appendOutboxLocked(envelope)
}

func (s *Store) GetCandidate(_ context.Context, candidateID uint64) (entities.Candidate, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidate, ok := s.candidates[candidateID]
	return candidate, ok, nil
}

func (s *Store) ListCandidates(_ context.Context) ([]entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Candidate, 0, len(s.candidates))
	for _, candidate := range s.candidates {
		items = append(items, candidate)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (s *Store) GetVoter(_ context.Context, principal string) (entities.Voter, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	voter, ok := s.voters[strings.TrimSpace(principal)]
	return voter, ok, nil
}

func (s *Store) AddVoter(
	_ context.Context,
	voter entities.Voter,
	counters entities.Counters,
	envelope ports.EventEnvelope,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.voters[strings.TrimSpace(voter.Principal)] = voter
	s.counters = counters
	return s.appendOutboxLocked(envelope)
}

func (s *Store) ApplyVote(_ context.Context, input ports.ApplyVoteInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.voters[strings.TrimSpace(input.Voter.Principal)] = input.Voter
	s.candidates[input.Candidate.ID] = input.Candidate
	s.election = cloneElection(input.Election)
	s.hasElection = true
	s.counters = input.Counters
	return s.appendOutboxLocked(input.Envelope)
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return nil
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) appendOutboxLocked(envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	s.outbox[outboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			CreatedAt:    createdAt,
		},
	}
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cloneElection(election entities.Election) entities.Election {
	cloned := election
	cloned.CandidateIDs = append([]uint64(nil), election.CandidateIDs...)
	return cloned
}

var _ ports.ElectionRepository = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.AccessPolicy = (*Store)(nil)

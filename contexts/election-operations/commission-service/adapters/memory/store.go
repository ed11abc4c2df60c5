package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"electorate/contexts/election-operations/commission-service/domain/entities"
	"electorate/contexts/election-operations/commission-service/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store keeps the roster and its outbox behind one RWMutex.
type Store struct {
	mu sync.RWMutex

	authority      string
	authoritySince time.Time
	registrars     map[string]entities.Registrar
	outbox         map[string]outboxRecord
}

func NewStore() *Store {
	return &Store{
		registrars: make(map[string]entities.Registrar),
		outbox:     make(map[string]outboxRecord),
	}
}

// Seed installs the initial authority without emitting an event.
func (s *Store) Seed(authority string, since time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authority = strings.TrimSpace(authority)
	s.authoritySince = since.UTC()
}

func (s *Store) GetRoster(_ context.Context) (entities.Roster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	registrars := make([]entities.Registrar, 0, len(s.registrars))
	for _, registrar := range s.registrars {
		registrars = append(registrars, registrar)
	}
	sort.Slice(registrars, func(i, j int) bool {
		if registrars[i].GrantedAt.Equal(registrars[j].GrantedAt) {
			return registrars[i].Principal < registrars[j].Principal
		}
		return registrars[i].GrantedAt.Before(registrars[j].GrantedAt)
	})
	return entities.Roster{
		Authority:      s.authority,
		AuthoritySince: s.authoritySince,
		Registrars:     registrars,
	}, nil
}

func (s *Store) SetAuthority(_ context.Context, principal string, since time.Time, envelope *ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trimmed := strings.TrimSpace(principal)
	s.authority = trimmed
	s.authoritySince = since.UTC()
	// A transferred-to authority needs no explicit grant anymore.
	delete(s.registrars, trimmed)
	if envelope == nil {
		return nil
	}
	return s.appendOutboxLocked(*envelope)
}

func (s *Store) GrantRegistrar(_ context.Context, registrar entities.Registrar, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.registrars[strings.TrimSpace(registrar.Principal)] = registrar
	return s.appendOutboxLocked(envelope)
}

func (s *Store) RevokeRegistrar(_ context.Context, principal string, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.registrars, strings.TrimSpace(principal))
	return s.appendOutboxLocked(envelope)
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

var _ ports.CommissionRepository = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)

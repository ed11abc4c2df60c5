package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"electorate/contexts/election-operations/election-engine/domain/entities"
	domainerrors "electorate/contexts/election-operations/election-engine/domain/errors"
	"electorate/contexts/election-operations/election-engine/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"

	// The election record and the counters are singletons; both live in a
	// single fixed-key row.
	singletonRowID = 1
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) GetElection(ctx context.Context) (entities.Election, bool, error) {
	var row electionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", singletonRowID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Election{}, false, nil
		}
		return entities.Election{}, false, r.logError("election_repo_get_election_failed", err)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) GetCounters(ctx context.Context) (entities.Counters, error) {
	var row counterModel
	err := r.db.WithContext(ctx).
		Where("id = ?", singletonRowID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Counters{}, nil
		}
		return entities.Counters{}, r.logError("election_repo_get_counters_failed", err)
	}
	return entities.Counters{
		CandidateCounter: row.CandidateCounter,
		RegisteredVoters: row.RegisteredVoters,
		TotalVotesCast:   row.TotalVotesCast,
	}, nil
}

func (r *Repository) CreateGeneration(
	ctx context.Context,
	election entities.Election,
	counters entities.Counters,
	envelope ports.EventEnvelope,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&candidateModel{}).Error; err != nil {
			return r.logError("election_repo_clear_candidates_failed", err)
		}
		if err := upsertElection(tx, election); err != nil {
			return r.logError("election_repo_create_generation_failed", err)
		}
		if err := upsertCounters(tx, counters); err != nil {
			return r.logError("election_repo_reset_counters_failed", err)
		}
		return r.insertOutbox(tx, envelope)
	})
}

func (r *Repository) SaveElection(ctx context.Context, election entities.Election, envelope *ports.EventEnvelope) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertElection(tx, election); err != nil {
			return r.logError("election_repo_save_election_failed", err)
		}
		if envelope == nil {
			return nil
		}
		return r.insertOutbox(tx, *envelope)
	})
}

func (r *Repository) AddCandidate(
	ctx context.Context,
	candidate entities.Candidate,
	election entities.Election,
	counters entities.Counters,
	envelope ports.EventEnvelope,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := candidateModelFromEntity(candidate)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrInvalidState
			}
			return r.logError("election_repo_add_candidate_failed", err,
				"candidate_id", candidate.ID,
				"name", candidate.Name,
			)
		}
		if err := upsertElection(tx, election); err != nil {
			return r.logError("election_repo_add_candidate_election_failed", err)
		}
		if err := upsertCounters(tx, counters); err != nil {
			return r.logError("election_repo_add_candidate_counters_failed", err)
		}
		return r.insertOutbox(tx, envelope)
	})
}

func (r *Repository) GetCandidate(ctx context.Context, candidateID uint64) (entities.Candidate, bool, error) {
	var row candidateModel
	err := r.db.WithContext(ctx).
		Where("id = ?", candidateID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Candidate{}, false, nil
		}
		return entities.Candidate{}, false, r.logError("election_repo_get_candidate_failed", err,
			"candidate_id", candidateID,
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListCandidates(ctx context.Context) ([]entities.Candidate, error) {
	var rows []candidateModel
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_candidates_failed", err)
	}
	items := make([]entities.Candidate, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetVoter(ctx context.Context, principal string) (entities.Voter, bool, error) {
	var row voterModel
	err := r.db.WithContext(ctx).
		Where("principal = ?", strings.TrimSpace(principal)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Voter{}, false, nil
		}
		return entities.Voter{}, false, r.logError("election_repo_get_voter_failed", err,
			"principal", strings.TrimSpace(principal),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) AddVoter(
	ctx context.Context,
	voter entities.Voter,
	counters entities.Counters,
	envelope ports.EventEnvelope,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := voterModelFromEntity(voter)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrVoterAlreadyRegistered
			}
			return r.logError("election_repo_add_voter_failed", err,
				"principal", voter.Principal,
			)
		}
		if err := upsertCounters(tx, counters); err != nil {
			return r.logError("election_repo_add_voter_counters_failed", err)
		}
		return r.insertOutbox(tx, envelope)
	})
}

func (r *Repository) ApplyVote(ctx context.Context, input ports.ApplyVoteInput) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		voterRow := voterModelFromEntity(input.Voter)
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "principal"}},
			DoUpdates: clause.Assignments(map[string]any{
				"has_voted":          voterRow.HasVoted,
				"voted_candidate_id": voterRow.VotedCandidateID,
				"voted_at":           voterRow.VotedAt,
			}),
		}).Create(&voterRow).Error; err != nil {
			return r.logError("election_repo_apply_vote_voter_failed", err,
				"principal", input.Voter.Principal,
			)
		}
		if err := tx.Model(&candidateModel{}).
			Where("id = ?", input.Candidate.ID).
			Update("vote_count", input.Candidate.VoteCount).Error; err != nil {
			return r.logError("election_repo_apply_vote_candidate_failed", err,
				"candidate_id", input.Candidate.ID,
			)
		}
		if err := upsertElection(tx, input.Election); err != nil {
			return r.logError("election_repo_apply_vote_election_failed", err)
		}
		if err := upsertCounters(tx, input.Counters); err != nil {
			return r.logError("election_repo_apply_vote_counters_failed", err)
		}
		return r.insertOutbox(tx, input.Envelope)
	})
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_pending_outbox_failed", err)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.ID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	timestamp := publishedAt.UTC()
	err := r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": &timestamp,
		}).Error
	if err != nil {
		return r.logError("election_repo_mark_outbox_published_failed", err,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	return nil
}

func (r *Repository) insertOutbox(tx *gorm.DB, envelope ports.EventEnvelope) error {
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
	row := outboxModel{
		ID:           outboxID,
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    createdAt,
	}
	if err := tx.Create(&row).Error; err != nil {
		return r.logError("election_repo_insert_outbox_failed", err,
			"outbox_id", outboxID,
			"event_type", row.EventType,
		)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "election-operations/election-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("election repository operation failed", fields...)
	return err
}

func upsertElection(tx *gorm.DB, election entities.Election) error {
	row := electionModelFromEntity(election)
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"title":               row.Title,
			"description":         row.Description,
			"start_time":          row.StartTime,
			"end_time":            row.EndTime,
			"active":              row.Active,
			"results_published":   row.ResultsPublished,
			"candidate_ids":       row.CandidateIDs,
			"total_votes":         row.TotalVotes,
			"winner_candidate_id": row.WinnerCandidateID,
			"updated_at":          row.UpdatedAt,
		}),
	}).Create(&row).Error
}

func upsertCounters(tx *gorm.DB, counters entities.Counters) error {
	row := counterModel{
		ID:               singletonRowID,
		CandidateCounter: counters.CandidateCounter,
		RegisteredVoters: counters.RegisteredVoters,
		TotalVotesCast:   counters.TotalVotesCast,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"candidate_counter": row.CandidateCounter,
			"registered_voters": row.RegisteredVoters,
			"total_votes_cast":  row.TotalVotesCast,
		}),
	}).Create(&row).Error
}

type electionModel struct {
	ID                int       `gorm:"column:id;primaryKey"`
	Title             string    `gorm:"column:title"`
	Description       string    `gorm:"column:description"`
	StartTime         time.Time `gorm:"column:start_time"`
	EndTime           time.Time `gorm:"column:end_time"`
	Active            bool      `gorm:"column:active"`
	ResultsPublished  bool      `gorm:"column:results_published"`
	CandidateIDs      []byte    `gorm:"column:candidate_ids"`
	TotalVotes        uint64    `gorm:"column:total_votes"`
	WinnerCandidateID uint64    `gorm:"column:winner_candidate_id"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (electionModel) TableName() string {
	return "elections"
}

func electionModelFromEntity(election entities.Election) electionModel {
	candidateIDs, _ := json.Marshal(election.CandidateIDs)
	row := electionModel{
		ID:                singletonRowID,
		Title:             strings.TrimSpace(election.Title),
		Description:       strings.TrimSpace(election.Description),
		StartTime:         election.StartTime.UTC(),
		EndTime:           election.EndTime.UTC(),
		Active:            election.Active,
		ResultsPublished:  election.ResultsPublished,
		CandidateIDs:      candidateIDs,
		TotalVotes:        election.TotalVotes,
		WinnerCandidateID: election.WinnerCandidateID,
		CreatedAt:         election.CreatedAt.UTC(),
		UpdatedAt:         election.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m electionModel) toEntity() entities.Election {
	var candidateIDs []uint64
	if len(m.CandidateIDs) > 0 {
		_ = json.Unmarshal(m.CandidateIDs, &candidateIDs)
	}
	return entities.Election{
		Title:             m.Title,
		Description:       m.Description,
		StartTime:         m.StartTime.UTC(),
		EndTime:           m.EndTime.UTC(),
		Active:            m.Active,
		ResultsPublished:  m.ResultsPublished,
		CandidateIDs:      candidateIDs,
		TotalVotes:        m.TotalVotes,
		WinnerCandidateID: m.WinnerCandidateID,
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}

type candidateModel struct {
	ID           uint64    `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name"`
	Party        string    `gorm:"column:party"`
	Manifesto    string    `gorm:"column:manifesto"`
	VoteCount    uint64    `gorm:"column:vote_count"`
	Active       bool      `gorm:"column:active"`
	RegisteredAt time.Time `gorm:"column:registered_at"`
}

func (candidateModel) TableName() string {
	return "candidates"
}

func candidateModelFromEntity(candidate entities.Candidate) candidateModel {
	return candidateModel{
		ID:           candidate.ID,
		Name:         strings.TrimSpace(candidate.Name),
		Party:        strings.TrimSpace(candidate.Party),
		Manifesto:    strings.TrimSpace(candidate.Manifesto),
		VoteCount:    candidate.VoteCount,
		Active:       candidate.Active,
		RegisteredAt: candidate.RegisteredAt.UTC(),
	}
}

func (m candidateModel) toEntity() entities.Candidate {
	return entities.Candidate{
		ID:           m.ID,
		Name:         m.Name,
		Party:        m.Party,
		Manifesto:    m.Manifesto,
		VoteCount:    m.VoteCount,
		Active:       m.Active,
		RegisteredAt: m.RegisteredAt.UTC(),
	}
}

type voterModel struct {
	Principal        string     `gorm:"column:principal;primaryKey"`
	Registered       bool       `gorm:"column:registered"`
	HasVoted         bool       `gorm:"column:has_voted"`
	VotedCandidateID uint64     `gorm:"column:voted_candidate_id"`
	RegisteredAt     time.Time  `gorm:"column:registered_at"`
	VotedAt          *time.Time `gorm:"column:voted_at"`
}

func (voterModel) TableName() string {
	return "voters"
}

func voterModelFromEntity(voter entities.Voter) voterModel {
	row := voterModel{
		Principal:        strings.TrimSpace(voter.Principal),
		Registered:       voter.Registered,
		HasVoted:         voter.HasVoted,
		VotedCandidateID: voter.VotedCandidateID,
		RegisteredAt:     voter.RegisteredAt.UTC(),
	}
	if !voter.VotedAt.IsZero() {
		votedAt := voter.VotedAt.UTC()
		row.VotedAt = &votedAt
	}
	return row
}

func (m voterModel) toEntity() entities.Voter {
	voter := entities.Voter{
		Principal:        m.Principal,
		Registered:       m.Registered,
		HasVoted:         m.HasVoted,
		VotedCandidateID: m.VotedCandidateID,
		RegisteredAt:     m.RegisteredAt.UTC(),
	}
	if m.VotedAt != nil {
		voter.VotedAt = m.VotedAt.UTC()
	}
	return voter
}

type counterModel struct {
	ID               int    `gorm:"column:id;primaryKey"`
	CandidateCounter uint64 `gorm:"column:candidate_counter"`
	RegisteredVoters uint64 `gorm:"column:registered_voters"`
	TotalVotesCast   uint64 `gorm:"column:total_votes_cast"`
}

func (counterModel) TableName() string {
	return "election_counters"
}

type outboxModel struct {
	ID           string     `gorm:"column:id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "election_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// SystemClock satisfies ports.Clock with real time for production wiring.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// UUIDGenerator satisfies ports.IDGenerator for production wiring.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.ElectionRepository = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
var _ ports.Clock = SystemClock{}
var _ ports.IDGenerator = UUIDGenerator{}

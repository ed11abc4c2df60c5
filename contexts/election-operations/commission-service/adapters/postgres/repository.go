package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"electorate/contexts/election-operations/commission-service/domain/entities"
	domainerrors "electorate/contexts/election-operations/commission-service/domain/errors"
	"electorate/contexts/election-operations/commission-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"

	// The authority record is a singleton row.
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

func (r *Repository) GetRoster(ctx context.Context) (entities.Roster, error) {
	var roster entities.Roster

	var authorityRow authorityModel
	err := r.db.WithContext(ctx).
		Where("id = ?", singletonRowID).
		First(&authorityRow).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Roster{}, r.logError("commission_repo_get_authority_failed", err)
	}
	if err == nil {
		roster.Authority = authorityRow.Principal
		roster.AuthoritySince = authorityRow.Since.UTC()
	}

	var registrarRows []registrarModel
	if err := r.db.WithContext(ctx).
		Order("granted_at ASC, principal ASC").
		Find(&registrarRows).Error; err != nil {
		return entities.Roster{}, r.logError("commission_repo_list_registrars_failed", err)
	}
	roster.Registrars = make([]entities.Registrar, 0, len(registrarRows))
	for _, row := range registrarRows {
		roster.Registrars = append(roster.Registrars, entities.Registrar{
			Principal: row.Principal,
			GrantedBy: row.GrantedBy,
			GrantedAt: row.GrantedAt.UTC(),
		})
	}
	return roster, nil
}

func (r *Repository) SetAuthority(ctx context.Context, principal string, since time.Time, envelope *ports.EventEnvelope) error {
	trimmed := strings.TrimSpace(principal)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := authorityModel{
			ID:        singletonRowID,
			Principal: trimmed,
			Since:     since.UTC(),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"principal": row.Principal,
				"since":     row.Since,
			}),
		}).Create(&row).Error; err != nil {
			return r.logError("commission_repo_set_authority_failed", err,
				"principal", trimmed,
			)
		}
		if err := tx.Where("principal = ?", trimmed).
			Delete(&registrarModel{}).Error; err != nil {
			return r.logError("commission_repo_set_authority_cleanup_failed", err,
				"principal", trimmed,
			)
		}
		if envelope == nil {
			return nil
		}
		return r.insertOutbox(tx, *envelope)
	})
}

func (r *Repository) GrantRegistrar(ctx context.Context, registrar entities.Registrar, envelope ports.EventEnvelope) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := registrarModel{
			Principal: strings.TrimSpace(registrar.Principal),
			GrantedBy: strings.TrimSpace(registrar.GrantedBy),
			GrantedAt: registrar.GrantedAt.UTC(),
		}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrRegistrarAlreadyGranted
			}
			return r.logError("commission_repo_grant_registrar_failed", err,
				"principal", row.Principal,
			)
		}
		return r.insertOutbox(tx, envelope)
	})
}

func (r *Repository) RevokeRegistrar(ctx context.Context, principal string, envelope ports.EventEnvelope) error {
	trimmed := strings.TrimSpace(principal)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("principal = ?", trimmed).Delete(&registrarModel{})
		if result.Error != nil {
			return r.logError("commission_repo_revoke_registrar_failed", result.Error,
				"principal", trimmed,
			)
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrRegistrarNotGranted
		}
		return r.insertOutbox(tx, envelope)
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
		return nil, r.logError("commission_repo_list_pending_outbox_failed", err)
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
		return r.logError("commission_repo_mark_outbox_published_failed", err,
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
		return r.logError("commission_repo_insert_outbox_failed", err,
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
		"module", "election-operations/commission-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("commission repository operation failed", fields...)
	return err
}

type authorityModel struct {
	ID        int       `gorm:"column:id;primaryKey"`
	Principal string    `gorm:"column:principal"`
	Since     time.Time `gorm:"column:since"`
}

func (authorityModel) TableName() string {
	return "commission_authority"
}

type registrarModel struct {
	Principal string    `gorm:"column:principal;primaryKey"`
	GrantedBy string    `gorm:"column:granted_by"`
	GrantedAt time.Time `gorm:"column:granted_at"`
}

func (registrarModel) TableName() string {
	return "commission_registrars"
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
	return "commission_outbox"
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

var _ ports.CommissionRepository = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
var _ ports.Clock = SystemClock{}
var _ ports.IDGenerator = UUIDGenerator{}

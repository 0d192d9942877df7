package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/supportdesk/reactivation-service/internal/domain"
)

// ReactivationRepository stores the reactivation journal.
type ReactivationRepository interface {
	Create(ctx context.Context, record *domain.ReactivationRecord) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.ReactivationRecord, error)
}

type reactivationRepository struct {
	pool *pgxpool.Pool
}

// NewReactivationRepository builds a Postgres-backed repository. A nil pool
// yields nil so callers can treat the journal as disabled.
func NewReactivationRepository(pool *pgxpool.Pool) ReactivationRepository {
	if pool == nil {
		return nil
	}
	return &reactivationRepository{pool: pool}
}

func (r *reactivationRepository) Create(ctx context.Context, record *domain.ReactivationRecord) error {
	const query = `
        INSERT INTO reactivation_journal (id, user_id, ticket_id, reactivated, category, agent_id, message, error, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	var category *string
	if record.Category != nil {
		c := string(*record.Category)
		category = &c
	}
	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.TicketID,
		record.Reactivated,
		category,
		record.AgentID,
		record.Message,
		record.Error,
		record.CreatedAt,
	)
	return err
}

func (r *reactivationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.ReactivationRecord, error) {
	const query = `
        SELECT id, user_id, ticket_id, reactivated, category, agent_id, message, error, created_at
        FROM reactivation_journal WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ReactivationRecord
	for rows.Next() {
		var (
			record   domain.ReactivationRecord
			category *string
		)
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.TicketID,
			&record.Reactivated,
			&category,
			&record.AgentID,
			&record.Message,
			&record.Error,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		if category != nil {
			c := domain.NotificationCategory(*category)
			record.Category = &c
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

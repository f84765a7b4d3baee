package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kitbuilder587/chatgpt-relay/internal/domain"
	"github.com/kitbuilder587/chatgpt-relay/internal/repository"
)

type UsageRepo struct {
	db *DB
}

func NewUsageRepo(db *DB) *UsageRepo {
	return &UsageRepo{db: db}
}

func (r *UsageRepo) Create(ctx context.Context, rec *domain.UsageRecord) error {
	query := `
        INSERT INTO completion_usage (id, request_id, model, category, http_status, duration_ms, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := r.db.Pool.Exec(ctx, query,
		rec.ID.String(),
		rec.RequestID,
		rec.Model,
		rec.Category,
		rec.HTTPStatus,
		rec.Duration.Milliseconds(),
		rec.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateUsage
		}
		return fmt.Errorf("create usage record: %w", err)
	}

	return nil
}

func (r *UsageRepo) CountByCategory(ctx context.Context, since time.Time) (map[string]int, error) {
	query := `
        SELECT category, COUNT(*)
        FROM completion_usage
        WHERE created_at >= $1
        GROUP BY category
    `

	rows, err := r.db.Pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("count usage: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			category string
			n        int
		)
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("scan usage count: %w", err)
		}
		counts[category] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usage counts: %w", err)
	}

	return counts, nil
}

var _ repository.UsageRepository = (*UsageRepo)(nil)

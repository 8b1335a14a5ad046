package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/venuedesk/tableops/internal/domain"
)

// OrderRepository is read-only: the order log is owned by an external
// collaborator and this service never writes it.
type OrderRepository interface {
	ListCreatedSince(ctx context.Context, venueID int64, since time.Time) ([]domain.Order, error)
	CountCreatedBefore(ctx context.Context, venueID int64, before time.Time) (int64, error)
}

type PGOrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &PGOrderRepository{db: db}
}

func (r *PGOrderRepository) ListCreatedSince(ctx context.Context, venueID int64, since time.Time) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `SELECT id, venue_id, resource_id, session_id, created_at, status, settled
		FROM orders WHERE venue_id = $1 AND created_at >= $2 ORDER BY created_at DESC`, venueID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.VenueID, &o.ResourceID, &o.SessionID, &o.CreatedAt, &o.Status, &o.Settled); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *PGOrderRepository) CountCreatedBefore(ctx context.Context, venueID int64, before time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE venue_id = $1 AND created_at < $2`, venueID, before).
		Scan(&count)
	return count, err
}

var _ OrderRepository = (*PGOrderRepository)(nil)

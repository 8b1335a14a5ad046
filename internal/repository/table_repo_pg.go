package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/venuedesk/tableops/internal/domain"
)

type TableRepository interface {
	CreateResource(ctx context.Context, res *domain.Resource, now time.Time) (*domain.Session, error)
	DeactivateResource(ctx context.Context, venueID, resourceID int64, now time.Time) error
	GetResource(ctx context.Context, venueID, resourceID int64) (*domain.Resource, error)
	ListResources(ctx context.Context, venueID int64) ([]domain.Resource, error)
	ListOpenSessions(ctx context.Context, venueID int64) ([]domain.Session, error)
	SeatParty(ctx context.Context, venueID, resourceID int64, reservationID *int64, staffID *string, now time.Time) (*domain.Session, error)
	CloseTable(ctx context.Context, venueID, resourceID int64, now time.Time) (*domain.Session, error)
	ArchiveClosedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type PGTableRepository struct {
	db *pgxpool.Pool
}

func NewTableRepository(db *pgxpool.Pool) TableRepository {
	return &PGTableRepository{db: db}
}

const sessionColumns = `id, venue_id, resource_id, status, opened_at, closed_at, staff_id, order_id`

// CreateResource inserts the resource and its initial FREE session in one
// transaction, so the open-session invariant holds from the first read.
func (r *PGTableRepository) CreateResource(ctx context.Context, res *domain.Resource, now time.Time) (*domain.Session, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	res.Active = true
	if err := tx.QueryRow(ctx, `INSERT INTO venue_resources (venue_id, label, capacity, active, created_at, updated_at)
		VALUES ($1, $2, $3, TRUE, $4, $4)
		RETURNING id, created_at, updated_at`, res.VenueID, res.Label, res.Capacity, now).
		Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, err
	}

	session := &domain.Session{VenueID: res.VenueID, ResourceID: res.ID, Status: domain.SessionStatusFree, OpenedAt: now}
	if err := tx.QueryRow(ctx, `INSERT INTO table_sessions (venue_id, resource_id, status, opened_at)
		VALUES ($1, $2, $3, $4) RETURNING id`, session.VenueID, session.ResourceID, session.Status, now).
		Scan(&session.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *PGTableRepository) DeactivateResource(ctx context.Context, venueID, resourceID int64, now time.Time) error {
	cmd, err := r.db.Exec(ctx, `UPDATE venue_resources SET active = FALSE, updated_at = $3
		WHERE id = $1 AND venue_id = $2`, resourceID, venueID, now)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGTableRepository) GetResource(ctx context.Context, venueID, resourceID int64) (*domain.Resource, error) {
	row := r.db.QueryRow(ctx, `SELECT id, venue_id, label, capacity, active, created_at, updated_at
		FROM venue_resources WHERE id = $1 AND venue_id = $2`, resourceID, venueID)
	var res domain.Resource
	if err := row.Scan(&res.ID, &res.VenueID, &res.Label, &res.Capacity, &res.Active, &res.CreatedAt, &res.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *PGTableRepository) ListResources(ctx context.Context, venueID int64) ([]domain.Resource, error) {
	rows, err := r.db.Query(ctx, `SELECT id, venue_id, label, capacity, active, created_at, updated_at
		FROM venue_resources WHERE venue_id = $1 ORDER BY label`, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resources := make([]domain.Resource, 0)
	for rows.Next() {
		var res domain.Resource
		if err := rows.Scan(&res.ID, &res.VenueID, &res.Label, &res.Capacity, &res.Active, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

func (r *PGTableRepository) ListOpenSessions(ctx context.Context, venueID int64) ([]domain.Session, error) {
	rows, err := r.db.Query(ctx, `SELECT `+sessionColumns+` FROM table_sessions
		WHERE venue_id = $1 AND closed_at IS NULL`, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]domain.Session, 0)
	for rows.Next() {
		var s domain.Session
		if err := rows.Scan(&s.ID, &s.VenueID, &s.ResourceID, &s.Status, &s.OpenedAt, &s.ClosedAt, &s.StaffID, &s.OrderID); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// SeatParty closes the open FREE session and opens an OCCUPIED one as a
// single transaction. The row lock on the resource serializes concurrent
// seatings; of two racing calls exactly one sees FREE.
func (r *PGTableRepository) SeatParty(ctx context.Context, venueID, resourceID int64, reservationID *int64, staffID *string, now time.Time) (*domain.Session, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := lockResource(ctx, tx, venueID, resourceID); err != nil {
		return nil, err
	}

	open, err := openSessionForUpdate(ctx, tx, resourceID)
	if err != nil {
		return nil, err
	}
	if open != nil && open.Status == domain.SessionStatusOccupied {
		return nil, domain.ErrAlreadyOccupied
	}
	if open != nil {
		if _, err := tx.Exec(ctx, `UPDATE table_sessions SET closed_at = $1 WHERE id = $2`, now, open.ID); err != nil {
			return nil, err
		}
	}

	session := &domain.Session{
		VenueID:    venueID,
		ResourceID: resourceID,
		Status:     domain.SessionStatusOccupied,
		OpenedAt:   now,
		StaffID:    staffID,
	}
	if err := tx.QueryRow(ctx, `INSERT INTO table_sessions (venue_id, resource_id, status, opened_at, staff_id)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`, venueID, resourceID, session.Status, now, staffID).
		Scan(&session.ID); err != nil {
		return nil, err
	}

	if reservationID != nil {
		if err := checkInReservation(ctx, tx, venueID, *reservationID, resourceID, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return session, nil
}

// CloseTable rotates the open session back to FREE unless an order linked to
// it is still unsettled. Closing an already-free table is a no-op returning
// the current open session.
func (r *PGTableRepository) CloseTable(ctx context.Context, venueID, resourceID int64, now time.Time) (*domain.Session, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := lockResource(ctx, tx, venueID, resourceID); err != nil {
		return nil, err
	}

	open, err := openSessionForUpdate(ctx, tx, resourceID)
	if err != nil {
		return nil, err
	}
	if open != nil && open.Status == domain.SessionStatusFree {
		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		return open, nil
	}

	if open != nil {
		var unsettled int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE session_id = $1 AND settled = FALSE`, open.ID).
			Scan(&unsettled); err != nil {
			return nil, err
		}
		if unsettled > 0 {
			return nil, domain.ErrUnsettledOrders
		}
		if _, err := tx.Exec(ctx, `UPDATE table_sessions SET closed_at = $1 WHERE id = $2`, now, open.ID); err != nil {
			return nil, err
		}
	}

	session := &domain.Session{VenueID: venueID, ResourceID: resourceID, Status: domain.SessionStatusFree, OpenedAt: now}
	if err := tx.QueryRow(ctx, `INSERT INTO table_sessions (venue_id, resource_id, status, opened_at)
		VALUES ($1, $2, $3, $4) RETURNING id`, venueID, resourceID, session.Status, now).
		Scan(&session.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return session, nil
}

// ArchiveClosedBefore moves long-closed sessions to the archive table.
// Storage hygiene only; no reader consults the archive.
func (r *PGTableRepository) ArchiveClosedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `INSERT INTO table_sessions_archive (id, venue_id, resource_id, status, opened_at, closed_at, staff_id, order_id)
		SELECT id, venue_id, resource_id, status, opened_at, closed_at, staff_id, order_id
		FROM table_sessions WHERE closed_at IS NOT NULL AND closed_at < $1
		ON CONFLICT (id) DO NOTHING`, cutoff); err != nil {
		return 0, err
	}
	cmd, err := tx.Exec(ctx, `DELETE FROM table_sessions WHERE closed_at IS NOT NULL AND closed_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func lockResource(ctx context.Context, tx pgx.Tx, venueID, resourceID int64) error {
	var active bool
	err := tx.QueryRow(ctx, `SELECT active FROM venue_resources WHERE id = $1 AND venue_id = $2 FOR UPDATE`,
		resourceID, venueID).Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	if !active {
		return domain.ErrResourceInactive
	}
	return nil
}

func openSessionForUpdate(ctx context.Context, tx pgx.Tx, resourceID int64) (*domain.Session, error) {
	row := tx.QueryRow(ctx, `SELECT `+sessionColumns+` FROM table_sessions
		WHERE resource_id = $1 AND closed_at IS NULL FOR UPDATE`, resourceID)
	var s domain.Session
	err := row.Scan(&s.ID, &s.VenueID, &s.ResourceID, &s.Status, &s.OpenedAt, &s.ClosedAt, &s.StaffID, &s.OrderID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func checkInReservation(ctx context.Context, tx pgx.Tx, venueID, reservationID, resourceID int64, now time.Time) error {
	var resVenue int64
	var status domain.ReservationStatus
	err := tx.QueryRow(ctx, `SELECT venue_id, status FROM reservations WHERE id = $1 FOR UPDATE`, reservationID).
		Scan(&resVenue, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	if resVenue != venueID {
		return domain.ErrVenueMismatch
	}
	if status != domain.ReservationStatusBooked {
		return domain.ErrReservationNotBookable
	}
	_, err = tx.Exec(ctx, `UPDATE reservations SET status = $1, resource_id = $2, updated_at = $3 WHERE id = $4`,
		domain.ReservationStatusCheckedIn, resourceID, now, reservationID)
	return err
}

var _ TableRepository = (*PGTableRepository)(nil)

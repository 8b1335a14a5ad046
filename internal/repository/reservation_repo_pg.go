package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/venuedesk/tableops/internal/domain"
)

type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation, now time.Time) error
	GetByID(ctx context.Context, venueID, id int64) (*domain.Reservation, error)
	Assign(ctx context.Context, venueID, reservationID, resourceID int64, now time.Time) (*domain.Reservation, error)
	Finalize(ctx context.Context, venueID, id int64, status domain.ReservationStatus, now time.Time) (*domain.Reservation, error)
	ListBookedBetween(ctx context.Context, venueID int64, from, to time.Time) ([]domain.Reservation, error)
	ListUnassigned(ctx context.Context, venueID int64, now time.Time) ([]domain.Reservation, error)
}

type PGReservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &PGReservationRepository{db: db}
}

const reservationColumns = `id, venue_id, resource_id, customer_name, party_size, start_at, end_at, status, created_at, updated_at`

func (r *PGReservationRepository) Create(ctx context.Context, res *domain.Reservation, now time.Time) error {
	res.Status = domain.ReservationStatusBooked
	return r.db.QueryRow(ctx, `INSERT INTO reservations (venue_id, resource_id, customer_name, party_size, start_at, end_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id, created_at, updated_at`,
		res.VenueID, res.ResourceID, res.CustomerName, res.PartySize, res.StartAt, res.EndAt, res.Status, now).
		Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
}

func (r *PGReservationRepository) GetByID(ctx context.Context, venueID, id int64) (*domain.Reservation, error) {
	row := r.db.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1 AND venue_id = $2`, id, venueID)
	res, err := scanReservation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return res, err
}

// Assign binds a BOOKED reservation to a table of the same venue.
func (r *PGReservationRepository) Assign(ctx context.Context, venueID, reservationID, resourceID int64, now time.Time) (*domain.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var resourceVenue int64
	err = tx.QueryRow(ctx, `SELECT venue_id FROM venue_resources WHERE id = $1`, resourceID).Scan(&resourceVenue)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if resourceVenue != venueID {
		return nil, domain.ErrVenueMismatch
	}

	row := tx.QueryRow(ctx, `UPDATE reservations SET resource_id = $1, updated_at = $2
		WHERE id = $3 AND venue_id = $4 AND status = $5
		RETURNING `+reservationColumns, resourceID, now, reservationID, venueID, domain.ReservationStatusBooked)
	res, err := scanReservation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.explainMissedUpdate(ctx, venueID, reservationID, domain.ErrReservationNotBookable)
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return res, nil
}

// Finalize moves a BOOKED reservation to a terminal status. The status guard
// in the WHERE clause makes the transition atomic; a missed update is
// disambiguated into NotFound vs AlreadyProcessed.
func (r *PGReservationRepository) Finalize(ctx context.Context, venueID, id int64, status domain.ReservationStatus, now time.Time) (*domain.Reservation, error) {
	row := r.db.QueryRow(ctx, `UPDATE reservations SET status = $1, updated_at = $2
		WHERE id = $3 AND venue_id = $4 AND status = $5
		RETURNING `+reservationColumns, status, now, id, venueID, domain.ReservationStatusBooked)
	res, err := scanReservation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.explainMissedUpdate(ctx, venueID, id, domain.ErrAlreadyProcessed)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// explainMissedUpdate turns a status-guarded UPDATE that hit no rows into
// NotFound or the caller's non-BOOKED error.
func (r *PGReservationRepository) explainMissedUpdate(ctx context.Context, venueID, id int64, notBooked error) error {
	var status domain.ReservationStatus
	err := r.db.QueryRow(ctx, `SELECT status FROM reservations WHERE id = $1 AND venue_id = $2`, id, venueID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return notBooked
}

// ListBookedBetween returns assigned BOOKED reservations overlapping the
// window (end after from, start no later than to), ordered by start.
func (r *PGReservationRepository) ListBookedBetween(ctx context.Context, venueID int64, from, to time.Time) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, `SELECT `+reservationColumns+` FROM reservations
		WHERE venue_id = $1 AND status = $2 AND resource_id IS NOT NULL
		AND end_at > $3 AND start_at <= $4
		ORDER BY start_at`, venueID, domain.ReservationStatusBooked, from, to)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// ListUnassigned surfaces BOOKED reservations with no table whose window has
// not already ended; these need staff assignment.
func (r *PGReservationRepository) ListUnassigned(ctx context.Context, venueID int64, now time.Time) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, `SELECT `+reservationColumns+` FROM reservations
		WHERE venue_id = $1 AND status = $2 AND resource_id IS NULL AND end_at > $3
		ORDER BY start_at`, venueID, domain.ReservationStatusBooked, now)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	if err := row.Scan(&res.ID, &res.VenueID, &res.ResourceID, &res.CustomerName, &res.PartySize,
		&res.StartAt, &res.EndAt, &res.Status, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, err
	}
	return &res, nil
}

func collectReservations(rows pgx.Rows) ([]domain.Reservation, error) {
	defer rows.Close()
	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.VenueID, &res.ResourceID, &res.CustomerName, &res.PartySize,
			&res.StartAt, &res.EndAt, &res.Status, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

var _ ReservationRepository = (*PGReservationRepository)(nil)

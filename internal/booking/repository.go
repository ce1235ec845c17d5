package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBPool matches the methods from *pgxpool.Pool that we use. This allows
// us to mock the database in tests.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, bookingID string) (*Booking, error)
	ListByUser(ctx context.Context, userID string) ([]Booking, error)
	UpdateStatus(ctx context.Context, bookingID string, status Status) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const bookingColumns = `id, kind, user_id, flight_id, hotel_id, room_type_id, guest_count, nights,
       unit_price_cents, total_cents, departure_at, arrival_at, check_in, check_out,
       status, confirmation_code, created_at`

func (r *PostgresRepository) Create(ctx context.Context, b *Booking) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO bookings (id, kind, user_id, flight_id, hotel_id, room_type_id, guest_count, nights,
		                      unit_price_cents, total_cents, departure_at, arrival_at, check_in, check_out,
		                      status, confirmation_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`, b.ID, b.Kind, b.UserID, b.FlightID, b.HotelID, b.RoomTypeID, b.GuestCount, b.Nights,
		b.UnitPriceCents, b.TotalCents, b.DepartureAt, b.ArrivalAt, b.CheckIn, b.CheckOut,
		b.Status, b.ConfirmationCode, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, bookingID string) (*Booking, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, bookingID)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("select booking: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("select bookings: %w", err)
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, bookingID string, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE bookings SET status=$2 WHERE id=$1`, bookingID, status)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(&b.ID, &b.Kind, &b.UserID, &b.FlightID, &b.HotelID, &b.RoomTypeID,
		&b.GuestCount, &b.Nights, &b.UnitPriceCents, &b.TotalCents, &b.DepartureAt, &b.ArrivalAt,
		&b.CheckIn, &b.CheckOut, &b.Status, &b.ConfirmationCode, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

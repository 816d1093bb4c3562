package rentalRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carrent/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

var _ RentalRepository = (*PostgresRentalRepo)(nil)

// PostgresRentalRepo implements RentalRepository on a relational schema.
type PostgresRentalRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRentalRepo(pool *pgxpool.Pool) *PostgresRentalRepo {
	return &PostgresRentalRepo{pool: pool}
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS cars (
		id          TEXT PRIMARY KEY,
		make        TEXT NOT NULL DEFAULT '',
		model       TEXT NOT NULL DEFAULT '',
		daily_price DOUBLE PRECISION NOT NULL,
		available   BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id        TEXT PRIMARY KEY,
		fcm_token TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id                     TEXT PRIMARY KEY,
		user_id                TEXT NOT NULL,
		car_id                 TEXT NOT NULL,
		pickup_at              TIMESTAMPTZ NOT NULL,
		return_at              TIMESTAMPTZ NOT NULL,
		days_count             BIGINT NOT NULL CHECK (days_count >= 1),
		daily_price_at_booking DOUBLE PRECISION NOT NULL,
		total_price            DOUBLE PRECISION NOT NULL,
		status                 TEXT NOT NULL,
		review                 TEXT NOT NULL,
		created_at             TIMESTAMPTZ NOT NULL,
		updated_at             TIMESTAMPTZ,
		CHECK (pickup_at < return_at)
	)`,
	`CREATE INDEX IF NOT EXISTS bookings_car_status_window_idx ON bookings (car_id, status, pickup_at, return_at)`,
	`CREATE INDEX IF NOT EXISTS bookings_user_created_idx ON bookings (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS notification_events (
		id           TEXT PRIMARY KEY,
		booking_id   TEXT NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
		type         TEXT NOT NULL,
		scheduled_at TIMESTAMPTZ NOT NULL,
		fired_at     TIMESTAMPTZ,
		is_fired     BOOLEAN NOT NULL DEFAULT FALSE,
		cancelled    BOOLEAN NOT NULL DEFAULT FALSE,
		handle       TEXT NOT NULL DEFAULT '',
		UNIQUE (booking_id, type)
	)`,
}

// EnsureIndexes creates the tables and indexes when they are missing.
func (r *PostgresRentalRepo) EnsureIndexes(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func (r *PostgresRentalRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PostgresRentalRepo) GetCarByID(ctx context.Context, id string) (*models.Car, error) {
	q := `SELECT id, make, model, daily_price, available FROM cars WHERE id = $1`
	var car models.Car
	err := r.pool.QueryRow(ctx, q, id).Scan(&car.ID, &car.Make, &car.Model, &car.DailyPrice, &car.Available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching car with id %s: %w", id, err)
	}
	return &car, nil
}

const bookingColumns = `id, user_id, car_id, pickup_at, return_at, days_count,
	daily_price_at_booking, total_price, status, review, created_at, updated_at`

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var (
		b              models.Booking
		status, review string
	)
	err := row.Scan(&b.ID, &b.UserID, &b.CarID, &b.PickupAt, &b.ReturnAt, &b.DaysCount,
		&b.DailyPriceAtBooking, &b.TotalPrice, &status, &review, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Status = models.BookingStatus(status)
	b.Review = models.BookingStatus(review)
	return &b, nil
}

func (r *PostgresRentalRepo) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching booking with id %s: %w", id, err)
	}
	return b, nil
}

func (r *PostgresRentalRepo) ListBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("error finding bookings for user %s: %w", userID, err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("error decoding booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

const overlapQuery = `SELECT EXISTS (
	SELECT 1 FROM bookings
	WHERE car_id = $1
	  AND status IN ($2, $3)
	  AND pickup_at < $4
	  AND return_at > $5
)`

// overlapArgs binds overlapQuery: the candidate's return bounds stored pickups and its pickup
// bounds stored returns.
func overlapArgs(carID string, pickup, ret time.Time) []any {
	return []any{carID, string(models.StatusActive), string(models.StatusOverdue), ret, pickup}
}

func (r *PostgresRentalRepo) QueryOverlapping(ctx context.Context, carID string, pickup, ret time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, overlapQuery, overlapArgs(carID, pickup, ret)...).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error finding overlapping bookings: %w", err)
	}
	return exists, nil
}

func (r *PostgresRentalRepo) InsertBooking(ctx context.Context, b *models.Booking, events []models.NotificationEvent) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	q := `INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = tx.Exec(ctx, q, b.ID, b.UserID, b.CarID, b.PickupAt, b.ReturnAt, b.DaysCount,
		b.DailyPriceAtBooking, b.TotalPrice, string(b.Status), string(b.Review), b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return wrapInsertErr("insert booking failed", err)
	}

	for _, ev := range events {
		q := `INSERT INTO notification_events
			(id, booking_id, type, scheduled_at, fired_at, is_fired, cancelled, handle)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		_, err := tx.Exec(ctx, q, ev.ID, ev.BookingID, string(ev.Type), ev.ScheduledAt, ev.FiredAt, ev.IsFired, ev.Cancelled, ev.Handle)
		if err != nil {
			return wrapInsertErr("insert notification event failed", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}

func wrapInsertErr(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%s: %w: %s", msg, ErrDuplicate, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func (r *PostgresRentalRepo) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus, updatedAt time.Time) error {
	return r.execBookingUpdate(ctx, `UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`, id, string(status), updatedAt)
}

func (r *PostgresRentalRepo) UpdateBookingReview(ctx context.Context, id string, review models.BookingStatus, updatedAt time.Time) error {
	return r.execBookingUpdate(ctx, `UPDATE bookings SET review = $2, updated_at = $3 WHERE id = $1`, id, string(review), updatedAt)
}

func (r *PostgresRentalRepo) execBookingUpdate(ctx context.Context, q, id string, value string, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, q, id, value, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update booking %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id)
	}
	return nil
}

func (r *PostgresRentalRepo) ListNotificationEvents(ctx context.Context, bookingID string) ([]models.NotificationEvent, error) {
	q := `SELECT id, booking_id, type, scheduled_at, fired_at, is_fired, cancelled, handle
		FROM notification_events WHERE booking_id = $1 ORDER BY scheduled_at`
	rows, err := r.pool.Query(ctx, q, bookingID)
	if err != nil {
		return nil, fmt.Errorf("error finding notification events: %w", err)
	}
	defer rows.Close()

	events := []models.NotificationEvent{}
	for rows.Next() {
		var (
			ev     models.NotificationEvent
			evType string
		)
		if err := rows.Scan(&ev.ID, &ev.BookingID, &evType, &ev.ScheduledAt, &ev.FiredAt, &ev.IsFired, &ev.Cancelled, &ev.Handle); err != nil {
			return nil, fmt.Errorf("error decoding notification event: %w", err)
		}
		ev.Type = models.NotificationEventType(evType)
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (r *PostgresRentalRepo) MarkNotificationEventFired(ctx context.Context, bookingID string, eventType models.NotificationEventType, firedAt time.Time) (bool, error) {
	q := `UPDATE notification_events SET is_fired = TRUE, fired_at = $3
		WHERE booking_id = $1 AND type = $2 AND is_fired = FALSE AND cancelled = FALSE`
	tag, err := r.pool.Exec(ctx, q, bookingID, string(eventType), firedAt)
	if err != nil {
		return false, fmt.Errorf("failed to mark event fired: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRentalRepo) CancelNotificationEventsForBooking(ctx context.Context, bookingID string) error {
	q := `UPDATE notification_events SET cancelled = TRUE WHERE booking_id = $1 AND is_fired = FALSE`
	if _, err := r.pool.Exec(ctx, q, bookingID); err != nil {
		return fmt.Errorf("failed to cancel notification events: %w", err)
	}
	return nil
}

func (r *PostgresRentalRepo) GetUserDeviceToken(ctx context.Context, userID string) (string, error) {
	var token string
	err := r.pool.QueryRow(ctx, `SELECT fcm_token FROM users WHERE id = $1`, userID).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("error fetching user %s: %w", userID, err)
	}
	return token, nil
}

// UpsertCars inserts or replaces cars by ID in one batch. Used by the development seeder.
func (r *PostgresRentalRepo) UpsertCars(ctx context.Context, cars []models.Car) error {
	batch := &pgx.Batch{}
	for _, c := range cars {
		batch.Queue(`INSERT INTO cars (id, make, model, daily_price, available)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET make = EXCLUDED.make, model = EXCLUDED.model,
				daily_price = EXCLUDED.daily_price, available = EXCLUDED.available`,
			c.ID, c.Make, c.Model, c.DailyPrice, c.Available)
	}
	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert cars: %w", err)
	}
	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/example/agenda-console/internal/persistence"
)

// BookingRepository stores booking rows in SQLite. Slot lists are kept as a
// JSON array in a text column; timestamps are RFC 3339 text.
type BookingRepository struct {
	storage *Storage
}

// NewBookingRepository creates a repository backed by the given storage.
func NewBookingRepository(storage *Storage) *BookingRepository {
	return &BookingRepository{storage: storage}
}

// CreateBooking inserts a new booking row.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking persistence.Booking) (persistence.Booking, error) {
	if booking.ID == "" {
		return persistence.Booking{}, persistence.ErrConstraintViolation
	}

	slots, err := encodeSlots(booking.TimeSlots)
	if err != nil {
		return persistence.Booking{}, err
	}

	const query = `
		INSERT INTO bookings (id, name, date, time_slots, status, message, recurring, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.storage.DB().ExecContext(ctx, query,
		booking.ID,
		booking.Name,
		booking.Date,
		slots,
		booking.Status,
		booking.Message,
		nullableText(booking.Recurring),
		booking.CreatedAt.UTC().Format(time.RFC3339),
		booking.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return persistence.Booking{}, mapSQLiteError(err)
	}
	return booking, nil
}

// GetBooking fetches one booking by id.
func (r *BookingRepository) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	const query = `
		SELECT id, name, date, time_slots, status, message, recurring, created_at, updated_at
		FROM bookings WHERE id = ?
	`
	row := r.storage.DB().QueryRowContext(ctx, query, id)
	booking, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return persistence.Booking{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Booking{}, err
	}
	return booking, nil
}

// UpdateBooking replaces the stored row for the booking's id. The write and
// the re-read of the stored row run in one transaction so the returned
// booking reflects exactly what was committed.
func (r *BookingRepository) UpdateBooking(ctx context.Context, booking persistence.Booking) (persistence.Booking, error) {
	slots, err := encodeSlots(booking.TimeSlots)
	if err != nil {
		return persistence.Booking{}, err
	}

	const update = `
		UPDATE bookings
		SET name = ?, date = ?, time_slots = ?, status = ?, message = ?, recurring = ?, updated_at = ?
		WHERE id = ?
	`
	const reread = `
		SELECT id, name, date, time_slots, status, message, recurring, created_at, updated_at
		FROM bookings WHERE id = ?
	`

	var stored persistence.Booking
	err = r.storage.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, update,
			booking.Name,
			booking.Date,
			slots,
			booking.Status,
			booking.Message,
			nullableText(booking.Recurring),
			booking.UpdatedAt.UTC().Format(time.RFC3339),
			booking.ID,
		)
		if err != nil {
			return mapSQLiteError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}

		stored, err = scanBooking(tx.QueryRowContext(ctx, reread, booking.ID))
		return err
	})
	if err != nil {
		return persistence.Booking{}, err
	}
	return stored, nil
}

// DeleteBooking removes the template row; recurring bookings have no
// materialized instances to cascade.
func (r *BookingRepository) DeleteBooking(ctx context.Context, id string) error {
	result, err := r.storage.DB().ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return mapSQLiteError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ListBookings returns rows matching the filter, ordered by date then id.
func (r *BookingRepository) ListBookings(ctx context.Context, filter persistence.BookingFilter) ([]persistence.Booking, error) {
	query := `
		SELECT id, name, date, time_slots, status, message, recurring, created_at, updated_at
		FROM bookings
	`
	conditions := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if filter.From != "" {
		conditions = append(conditions, "date >= ?")
		args = append(args, filter.From)
	}
	if filter.To != "" {
		conditions = append(conditions, "date <= ?")
		args = append(args, filter.To)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date, id"

	rows, err := r.storage.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]persistence.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (persistence.Booking, error) {
	var (
		booking   persistence.Booking
		slots     string
		recurring sql.NullString
		createdAt string
		updatedAt string
	)
	err := row.Scan(
		&booking.ID,
		&booking.Name,
		&booking.Date,
		&slots,
		&booking.Status,
		&booking.Message,
		&recurring,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Booking{}, err
	}

	if err := json.Unmarshal([]byte(slots), &booking.TimeSlots); err != nil {
		return persistence.Booking{}, fmt.Errorf("decode time_slots for %s: %w", booking.ID, err)
	}
	if recurring.Valid {
		booking.Recurring = &recurring.String
	}
	if booking.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Booking{}, fmt.Errorf("decode created_at for %s: %w", booking.ID, err)
	}
	if booking.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Booking{}, fmt.Errorf("decode updated_at for %s: %w", booking.ID, err)
	}
	return booking, nil
}

func encodeSlots(slots []string) (string, error) {
	if slots == nil {
		slots = []string{}
	}
	encoded, err := json.Marshal(slots)
	if err != nil {
		return "", fmt.Errorf("encode time_slots: %w", err)
	}
	return string(encoded), nil
}

func nullableText(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "constraint") {
		return fmt.Errorf("%w: %v", persistence.ErrConstraintViolation, err)
	}
	return err
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hardeep74644/Library-Room-Booking-App/internal/model"
)

// BookingRepo provides access to the `bookings` table. Reads are plain
// queries; the booking insert runs inside a transaction that locks the room
// row and re-verifies the slot against fresh data, so two clients that both
// passed the handler-level checks cannot commit overlapping bookings.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

const bookingCols = "id, user_id, room_id, room_number, date, start_time, end_time, status, created_at, cancelled_at, completed_at"

type rowScanner interface{ Scan(...any) error }

func scanBooking(row rowScanner) (model.Booking, error) {
	var (
		b           model.Booking
		status      string
		cancelledAt sql.NullTime
		completedAt sql.NullTime
	)
	err := row.Scan(&b.ID, &b.UserID, &b.RoomID, &b.RoomNumber, &b.Date,
		&b.StartTime, &b.EndTime, &status, &b.CreatedAt, &cancelledAt, &completedAt)
	if err != nil {
		return model.Booking{}, err
	}
	b.Status = model.Status(status)
	if cancelledAt.Valid {
		t := cancelledAt.Time
		b.CancelledAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		b.CompletedAt = &t
	}
	return b, nil
}

func (r *BookingRepo) queryBookings(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetByID fetches a booking by id, mapping a miss to ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	b, err := scanBooking(r.DB.QueryRowContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ActiveByUser returns the user's active bookings. Under the
// single-reservation policy this is at most one row, but the query does not
// assume that.
func (r *BookingRepo) ActiveByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return r.queryBookings(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE user_id=? AND status=?",
		userID, string(model.StatusActive))
}

// ActiveByRoomDate returns the active bookings for a room on a calendar
// date, ordered by start time. This is the conflict-check input.
func (r *BookingRepo) ActiveByRoomDate(ctx context.Context, roomID uint64, date time.Time) ([]model.Booking, error) {
	return r.queryBookings(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE room_id=? AND date=? AND status=? ORDER BY start_time",
		roomID, model.DateOnly(date), string(model.StatusActive))
}

// ListByUser returns all of a user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return r.queryBookings(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE user_id=? ORDER BY created_at DESC",
		userID)
}

// ListAll returns every booking, newest first. Used by the librarian
// dashboard.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	return r.queryBookings(ctx,
		"SELECT "+bookingCols+" FROM bookings ORDER BY created_at DESC")
}

// CountActiveByRoom returns how many active bookings reference the room.
// Room deletion is refused while this is non-zero.
func (r *BookingRepo) CountActiveByRoom(ctx context.Context, roomID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE room_id=? AND status=?",
		roomID, string(model.StatusActive)).Scan(&n)
	return n, err
}

// CreateIfFree inserts the booking only if the slot is still free. The
// transaction first locks the room row with SELECT ... FOR UPDATE, which
// serializes concurrent booking attempts for the same room, then re-checks
// the availability window and the active bookings for the date before
// inserting. Returns ErrRoomNotFound, ErrRoomUnavailable or ErrSlotTaken
// when the re-check fails; on success the booking's ID and CreatedAt are
// populated.
func (r *BookingRepo) CreateIfFree(ctx context.Context, b *model.Booking) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the room row. Concurrent inserts for the same room queue up here.
	var from, to sql.NullTime
	err = tx.QueryRowContext(ctx,
		"SELECT available_from, available_to FROM rooms WHERE id=? FOR UPDATE",
		b.RoomID).Scan(&from, &to)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRoomNotFound
	}
	if err != nil {
		return err
	}
	room := model.Room{ID: b.RoomID}
	if from.Valid && to.Valid {
		f := model.DateOnly(from.Time)
		t := model.DateOnly(to.Time)
		room.AvailableFrom = &f
		room.AvailableTo = &t
	}
	if !room.AvailableOn(b.Date) {
		return ErrRoomUnavailable
	}

	// Fresh conflict check against rows committed since the caller's search.
	rows, err := tx.QueryContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE room_id=? AND date=? AND status=?",
		b.RoomID, model.DateOnly(b.Date), string(model.StatusActive))
	if err != nil {
		return err
	}
	existing := make([]model.Booking, 0)
	for rows.Next() {
		eb, err := scanBooking(rows)
		if err != nil {
			rows.Close()
			return err
		}
		existing = append(existing, eb)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	conflict, err := model.HasConflict(b.StartTime, b.EndTime, existing)
	if err != nil {
		return err
	}
	if conflict {
		return ErrSlotTaken
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO bookings (user_id, room_id, room_number, date, start_time, end_time, status) VALUES (?,?,?,?,?,?,?)",
		b.UserID, b.RoomID, b.RoomNumber, model.DateOnly(b.Date), b.StartTime, b.EndTime, string(b.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	if err := tx.QueryRowContext(ctx,
		"SELECT created_at FROM bookings WHERE id=?", b.ID).Scan(&b.CreatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// MarkCancelled persists an active→cancelled transition. The status guard
// in the WHERE clause keeps a cancel that raced with the expiry sweep from
// overwriting a terminal state; such a race maps to ErrNotActive.
func (r *BookingRepo) MarkCancelled(ctx context.Context, id uint64, at time.Time) error {
	return r.transition(ctx, id,
		"UPDATE bookings SET status=?, cancelled_at=? WHERE id=? AND status=?",
		string(model.StatusCancelled), at.UTC())
}

// MarkCompleted persists an active→completed transition with the same
// status guard as MarkCancelled.
func (r *BookingRepo) MarkCompleted(ctx context.Context, id uint64, at time.Time) error {
	return r.transition(ctx, id,
		"UPDATE bookings SET status=?, completed_at=? WHERE id=? AND status=?",
		string(model.StatusCompleted), at.UTC())
}

func (r *BookingRepo) transition(ctx context.Context, id uint64, q, status string, at time.Time) error {
	res, err := r.DB.ExecContext(ctx, q, status, at, id, string(model.StatusActive))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotActive
	}
	return nil
}

// DeleteByUser removes every booking owned by the user, regardless of
// status, and returns how many rows were deleted. Part of the user-delete
// cascade.
func (r *BookingRepo) DeleteByUser(ctx context.Context, userID uint64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM bookings WHERE user_id=?", userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

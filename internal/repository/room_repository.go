package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/hardeep74644/Library-Room-Booking-App/internal/model"
)

// RoomRepo provides CRUD access to the `rooms` table. The availability
// window lives in the nullable available_from / available_to DATE columns;
// both NULL means the room has no schedule. Rows are always read through
// scanRoom so a half-set window (only one column NULL, a leftover from the
// legacy weekday schedule format) is rejected instead of being silently
// treated as open-ended.
type RoomRepo struct{ DB *sql.DB }

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{DB: db} }

const roomCols = "id, number, capacity, floor, available_from, available_to"

// ErrCorruptSchedule is returned when a room row carries only one half of
// its availability window.
var ErrCorruptSchedule = errors.New("room has a corrupt availability window")

func scanRoom(scan func(...any) error) (*model.Room, error) {
	var (
		room model.Room
		from sql.NullTime
		to   sql.NullTime
	)
	if err := scan(&room.ID, &room.Number, &room.Capacity, &room.Floor, &from, &to); err != nil {
		return nil, err
	}
	if from.Valid != to.Valid {
		return nil, ErrCorruptSchedule
	}
	if from.Valid {
		f := model.DateOnly(from.Time)
		t := model.DateOnly(to.Time)
		room.AvailableFrom = &f
		room.AvailableTo = &t
	}
	return &room, nil
}

// Create inserts a new room without a schedule and populates its ID.
// A duplicate room number maps to ErrRoomNumberExists.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO rooms (number, capacity, floor) VALUES (?,?,?)",
		room.Number, room.Capacity, room.Floor)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrRoomNumberExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)
	return nil
}

// GetByID fetches a room by id, mapping a miss to ErrRoomNotFound.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+roomCols+" FROM rooms WHERE id=? LIMIT 1", id)
	room, err := scanRoom(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	return room, err
}

// ListAll returns every room ordered by room number.
func (r *RoomRepo) ListAll(ctx context.Context) ([]*model.Room, error) {
	return r.list(ctx, "SELECT "+roomCols+" FROM rooms ORDER BY number")
}

// ListByCapacity returns rooms with exactly the given capacity, ordered by
// room number. The student search form offers a fixed set of capacities.
func (r *RoomRepo) ListByCapacity(ctx context.Context, capacity uint32) ([]*model.Room, error) {
	return r.list(ctx, "SELECT "+roomCols+" FROM rooms WHERE capacity=? ORDER BY number", capacity)
}

func (r *RoomRepo) list(ctx context.Context, q string, args ...any) ([]*model.Room, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

// UpdateSchedule replaces the room's availability window. Passing nil for
// both dates clears the schedule; the room then rejects every booking until
// a new window is set.
func (r *RoomRepo) UpdateSchedule(ctx context.Context, id uint64, from, to *time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE rooms SET available_from=?, available_to=? WHERE id=?", from, to, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// Delete removes a room row. The reservation service verifies there are no
// active bookings before calling this.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM rooms WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

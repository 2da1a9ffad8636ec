package model

import (
	"errors"
	"time"
)

// Status is the lifecycle state of a booking. A booking starts active and
// ends up either cancelled (user or librarian action) or completed (its end
// time passed). Both end states are terminal.
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// ErrInvalidTransition is returned when a booking is asked to leave a
// terminal state, e.g. cancelling an already-cancelled booking.
var ErrInvalidTransition = errors.New("booking is not active")

// Booking mirrors a row of the `bookings` table. RoomNumber is denormalized
// from the room so booking lists can be rendered without a join. Date is a
// calendar date at UTC midnight; StartTime and EndTime are "HH:MM" strings
// with EndTime always after StartTime.
type Booking struct {
	ID          uint64     `json:"id"`
	UserID      uint64     `json:"user_id"`
	RoomID      uint64     `json:"room_id"`
	RoomNumber  string     `json:"room_number"`
	Date        time.Time  `json:"date"`
	StartTime   string     `json:"start_time"`
	EndTime     string     `json:"end_time"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Cancel transitions the booking from active to cancelled. Any other
// starting state is an invalid transition and leaves the booking unchanged.
func (b *Booking) Cancel(now time.Time) error {
	if b.Status != StatusActive {
		return ErrInvalidTransition
	}
	b.Status = StatusCancelled
	at := now.UTC()
	b.CancelledAt = &at
	return nil
}

// Complete transitions the booking from active to completed. Only the
// expiry sweep calls this, when the slot's end time has passed.
func (b *Booking) Complete(now time.Time) error {
	if b.Status != StatusActive {
		return ErrInvalidTransition
	}
	b.Status = StatusCompleted
	at := now.UTC()
	b.CompletedAt = &at
	return nil
}

// Expired reports whether an active booking's slot has already ended.
// Cancelled and completed bookings are never expired; they already left
// the active state.
func (b *Booking) Expired(now time.Time) bool {
	if b.Status != StatusActive {
		return false
	}
	endMin, err := TimeToMinutes(b.EndTime)
	if err != nil {
		return false
	}
	end := DateOnly(b.Date).Add(time.Duration(endMin) * time.Minute)
	return end.Before(now.UTC())
}

// Overlaps reports whether two half-open minute intervals [aStart, aEnd)
// and [bStart, bEnd) intersect. Slots that merely touch, where one ends
// exactly when the other starts, do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// HasConflict reports whether the candidate slot [start, end) collides with
// any active booking in existing. Cancelled and completed bookings never
// conflict; a cancelled slot frees the room immediately. A malformed
// candidate time is reported as an error so callers can fail closed.
func HasConflict(start, end string, existing []Booking) (bool, error) {
	startMin, err := TimeToMinutes(start)
	if err != nil {
		return false, err
	}
	endMin, err := TimeToMinutes(end)
	if err != nil {
		return false, err
	}
	for _, b := range existing {
		if b.Status != StatusActive {
			continue
		}
		bStart, err := TimeToMinutes(b.StartTime)
		if err != nil {
			continue
		}
		bEnd, err := TimeToMinutes(b.EndTime)
		if err != nil {
			continue
		}
		if Overlaps(startMin, endMin, bStart, bEnd) {
			return true, nil
		}
	}
	return false, nil
}

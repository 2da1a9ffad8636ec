package model

import (
	"errors"
	"time"
)

// Room represents a bookable study room as stored in the `rooms` table.
// AvailableFrom/AvailableTo form the availability window: the inclusive
// calendar date range in which the room accepts bookings. Both nil means
// the room has no schedule and cannot be booked at all.
type Room struct {
	ID            uint64     `json:"id"`
	Number        string     `json:"number"`
	Capacity      uint32     `json:"capacity"`
	Floor         uint32     `json:"floor"`
	AvailableFrom *time.Time `json:"available_from,omitempty"`
	AvailableTo   *time.Time `json:"available_to,omitempty"`
}

// ErrInvalidSchedule is returned when a schedule's start date falls after
// its end date.
var ErrInvalidSchedule = errors.New("schedule start date must not be after end date")

// HasSchedule reports whether the room has an availability window set.
func (r *Room) HasSchedule() bool {
	return r.AvailableFrom != nil && r.AvailableTo != nil
}

// AvailableOn reports whether the room accepts bookings on the given
// calendar date. A room with no schedule is never available. Both window
// boundaries are inclusive, and only the calendar date is compared; the
// time-of-day of any argument is ignored.
func (r *Room) AvailableOn(date time.Time) bool {
	if !r.HasSchedule() {
		return false
	}
	d := DateOnly(date)
	from := DateOnly(*r.AvailableFrom)
	to := DateOnly(*r.AvailableTo)
	return !d.Before(from) && !d.After(to)
}

// SetSchedule replaces the room's availability window. A single-day window
// (from == to) is allowed. The previous window, if any, is discarded.
func (r *Room) SetSchedule(from, to time.Time) error {
	f := DateOnly(from)
	t := DateOnly(to)
	if f.After(t) {
		return ErrInvalidSchedule
	}
	r.AvailableFrom = &f
	r.AvailableTo = &t
	return nil
}

// ClearSchedule removes the availability window. The room becomes
// unavailable on every date until a new schedule is set; there is no undo.
func (r *Room) ClearSchedule() {
	r.AvailableFrom = nil
	r.AvailableTo = nil
}

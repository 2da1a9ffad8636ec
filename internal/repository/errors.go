// Package repository implements data access for users, rooms, bookings and
// refresh tokens on top of database/sql. Sentinel errors defined here let
// the service and handler layers distinguish failure scenarios without
// string matching: ErrSlotTaken signals that a booking insert lost the race
// for a slot, ErrRoomUnavailable that the room's window no longer covers
// the date at commit time, and the *NotFound values map to HTTP 404.
package repository

import "errors"

// ErrRoomNotFound is returned when a room lookup matches no row.
var ErrRoomNotFound = errors.New("room not found")

// ErrBookingNotFound is returned when a booking lookup matches no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when registering with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrRoomNumberExists is returned when creating a room whose number is
// already taken.
var ErrRoomNumberExists = errors.New("room number already exists")

// ErrSlotTaken is returned by the conditional booking insert when a
// conflicting active booking was found inside the transaction. The caller
// passed its own conflict pre-check, so this means another client committed
// first.
var ErrSlotTaken = errors.New("slot already taken")

// ErrRoomUnavailable is returned by the conditional booking insert when the
// room's availability window no longer covers the requested date at commit
// time.
var ErrRoomUnavailable = errors.New("room not available on date")

// ErrNotActive is returned when a status transition update matched no
// active row, meaning the booking already left the active state.
var ErrNotActive = errors.New("booking is not active")

package service

import "errors"

// Sentinel errors returned by the reservation service. Handlers translate
// each into a specific HTTP status and user-facing message; none of them
// may silently succeed, and an availability check that cannot be completed
// is reported as a failure rather than treated as available.
var (
	// ErrDateFormat is returned when a booking date is not YYYY-MM-DD.
	ErrDateFormat = errors.New("invalid date, expected YYYY-MM-DD")

	// ErrInvalidInterval is returned when the end time is not after the
	// start time.
	ErrInvalidInterval = errors.New("end time must be after start time")

	// ErrAlreadyBooked enforces the single-reservation policy: a user may
	// hold at most one active booking at a time.
	ErrAlreadyBooked = errors.New("you already have an active reservation")

	// ErrPastDate rejects bookings for dates before today.
	ErrPastDate = errors.New("booking date is in the past")

	// ErrOutsideHours rejects slots outside the 09:00-21:00 window.
	ErrOutsideHours = errors.New("booking is outside operating hours (09:00-21:00)")

	// ErrRoomUnavailable means the room has no schedule or the date falls
	// outside its availability window.
	ErrRoomUnavailable = errors.New("room is not available on that date")

	// ErrSlotConflict means the requested slot overlaps an existing active
	// booking for the room and date.
	ErrSlotConflict = errors.New("time slot overlaps an existing booking")

	// ErrRaceLost means the slot was free during the pre-checks but taken
	// by the time the insert committed. The caller should search again.
	ErrRaceLost = errors.New("slot was just booked by someone else, please search again")

	// ErrForbidden means the actor may not operate on this booking.
	ErrForbidden = errors.New("not allowed to modify this booking")

	// ErrRoomHasActiveBookings blocks deleting a room that active bookings
	// still reference.
	ErrRoomHasActiveBookings = errors.New("room still has active bookings")

	// ErrPartialDelete reports that a user's bookings were removed but the
	// user record itself could not be deleted. Distinct from a total
	// failure where nothing was removed.
	ErrPartialDelete = errors.New("bookings removed but user record could not be deleted")

	// ErrStoreUnavailable wraps transient store failures. Callers may
	// retry the operation.
	ErrStoreUnavailable = errors.New("store temporarily unavailable, try again")
)

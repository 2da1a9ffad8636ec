// Package queue defines message payloads exchanged over the message broker
// and the publisher/consumer used to move them. The API server publishes
// booking events fire-and-forget; the notifier worker consumes them and
// sends the confirmation emails.
package queue

const (
	// BookingConfirmedQueue carries events for newly created bookings.
	BookingConfirmedQueue = "booking.confirmed"
	// BookingCancelledQueue carries events for cancelled bookings.
	BookingCancelledQueue = "booking.cancelled"
)

// BookingEvent describes a booking state change with everything the
// notifier needs to address and render an email, so it never queries the
// primary database. EventID is a UUID assigned at publish time for
// traceability across the broker.
type BookingEvent struct {
	EventID    string `json:"event_id"`
	BookingID  uint64 `json:"booking_id"`
	UserID     uint64 `json:"user_id"`
	UserName   string `json:"user_name"`
	UserEmail  string `json:"user_email"`
	RoomID     uint64 `json:"room_id"`
	RoomNumber string `json:"room_number"`
	Date       string `json:"date"`       // YYYY-MM-DD
	StartTime  string `json:"start_time"` // HH:MM
	EndTime    string `json:"end_time"`   // HH:MM
	OccurredAt string `json:"occurred_at"`
}

// Package service contains the reservation coordinator: the ordered checks
// that decide whether a booking request is allowed, the expiry sweep that
// completes past-due bookings on read, and the destructive room/user
// operations with their dependent-booking rules.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/hardeep74644/Library-Room-Booking-App/internal/model"
	"github.com/hardeep74644/Library-Room-Booking-App/internal/queue"
	"github.com/hardeep74644/Library-Room-Booking-App/internal/repository"
)

// RoomStore is the slice of room persistence the coordinator needs.
type RoomStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Room, error)
	ListByCapacity(ctx context.Context, capacity uint32) ([]*model.Room, error)
	Delete(ctx context.Context, id uint64) error
}

// BookingStore is the booking persistence used by the coordinator.
// CreateIfFree must re-verify the slot against fresh data inside its own
// transaction and return repository.ErrSlotTaken / ErrRoomUnavailable when
// the re-check fails.
type BookingStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	ActiveByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	ActiveByRoomDate(ctx context.Context, roomID uint64, date time.Time) ([]model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
	CountActiveByRoom(ctx context.Context, roomID uint64) (int, error)
	CreateIfFree(ctx context.Context, b *model.Booking) error
	MarkCancelled(ctx context.Context, id uint64, at time.Time) error
	MarkCompleted(ctx context.Context, id uint64, at time.Time) error
	DeleteByUser(ctx context.Context, userID uint64) (int64, error)
}

// UserStore is the user persistence used for notifications and the
// delete-user cascade.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
	Delete(ctx context.Context, id uint64) error
}

// EventPublisher delivers booking events to the notification pipeline.
// Implementations are best-effort; a publish failure must never fail the
// operation that triggered it.
type EventPublisher interface {
	BookingConfirmed(ctx context.Context, ev queue.BookingEvent) error
	BookingCancelled(ctx context.Context, ev queue.BookingEvent) error
}

// Reservation coordinates bookings across rooms, users and the event
// pipeline. All methods are safe for concurrent use; the store provides
// the serialization for the commit step.
type Reservation struct {
	Rooms    RoomStore
	Bookings BookingStore
	Users    UserStore
	Events   EventPublisher
	Clock    Clock
}

// NewReservation wires a Reservation. Events may be nil to disable
// notifications; Clock defaults to the system clock.
func NewReservation(rooms RoomStore, bookings BookingStore, users UserStore, events EventPublisher, clock Clock) *Reservation {
	if rooms == nil || bookings == nil || users == nil {
		panic("nil store passed to NewReservation")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Reservation{Rooms: rooms, Bookings: bookings, Users: users, Events: events, Clock: clock}
}

// CreateBooking runs the full reservation pipeline for a student request.
// The checks run in a fixed order so the caller always learns the first
// violated rule: single active booking per user, no past dates, operating
// hours, availability window, slot conflict. The final insert re-verifies
// window and conflicts inside a store transaction; a conflict surfacing
// only there means another client won the search-to-confirm race and maps
// to ErrRaceLost. On success a confirmation event is published
// fire-and-forget.
func (s *Reservation) CreateBooking(ctx context.Context, userID, roomID uint64, date, startTime, endTime string) (*model.Booking, error) {
	startMin, err := model.TimeToMinutes(startTime)
	if err != nil {
		return nil, err
	}
	endMin, err := model.TimeToMinutes(endTime)
	if err != nil {
		return nil, err
	}
	if endMin <= startMin {
		return nil, ErrInvalidInterval
	}
	day, err := model.ParseDate(date)
	if err != nil {
		return nil, ErrDateFormat
	}

	active, err := s.Bookings.ActiveByUser(ctx, userID)
	if err != nil {
		return nil, transient(err)
	}
	if len(active) > 0 {
		return nil, ErrAlreadyBooked
	}

	today := model.DateOnly(s.Clock.Now())
	if model.DateOnly(day).Before(today) {
		return nil, ErrPastDate
	}

	if !model.WithinOperatingHours(startTime, endTime) {
		return nil, ErrOutsideHours
	}

	room, err := s.Rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, err
		}
		return nil, transient(err)
	}
	if !room.AvailableOn(day) {
		return nil, ErrRoomUnavailable
	}

	existing, err := s.Bookings.ActiveByRoomDate(ctx, roomID, day)
	if err != nil {
		// Fail closed: an unverifiable conflict check blocks the booking.
		return nil, transient(err)
	}
	conflict, err := model.HasConflict(startTime, endTime, existing)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrSlotConflict
	}

	booking := &model.Booking{
		UserID:     userID,
		RoomID:     roomID,
		RoomNumber: room.Number,
		Date:       model.DateOnly(day),
		StartTime:  startTime,
		EndTime:    endTime,
		Status:     model.StatusActive,
		CreatedAt:  s.Clock.Now(),
	}
	if err := s.Bookings.CreateIfFree(ctx, booking); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotTaken), errors.Is(err, repository.ErrRoomUnavailable):
			// The pre-checks passed moments ago, so the slot was taken in
			// the gap between search and confirm.
			return nil, ErrRaceLost
		case errors.Is(err, repository.ErrRoomNotFound):
			return nil, err
		default:
			return nil, transient(err)
		}
	}

	s.publish(booking, false)
	return booking, nil
}

// CancelBooking applies the active→cancelled transition on behalf of the
// booking's owner or a librarian. Cancelling a booking that already left
// the active state fails with model.ErrInvalidTransition and changes
// nothing.
func (s *Reservation) CancelBooking(ctx context.Context, bookingID, actorID uint64, actorRole model.Role) (*model.Booking, error) {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, err
		}
		return nil, transient(err)
	}
	if booking.UserID != actorID && actorRole != model.RoleLibrarian {
		return nil, ErrForbidden
	}

	now := s.Clock.Now()
	if err := booking.Cancel(now); err != nil {
		return nil, err
	}
	if err := s.Bookings.MarkCancelled(ctx, booking.ID, now); err != nil {
		if errors.Is(err, repository.ErrNotActive) {
			// Lost a race with the expiry sweep or another cancel.
			return nil, model.ErrInvalidTransition
		}
		return nil, transient(err)
	}

	s.publish(booking, true)
	return booking, nil
}

// UserBookings returns the user's bookings, newest first, after completing
// any whose end time has passed. The caller never sees a booking as active
// past its end time.
func (s *Reservation) UserBookings(ctx context.Context, userID uint64) ([]model.Booking, error) {
	bookings, err := s.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, transient(err)
	}
	return s.sweep(ctx, bookings), nil
}

// AllBookings returns every booking for the librarian dashboard, swept the
// same way as UserBookings.
func (s *Reservation) AllBookings(ctx context.Context) ([]model.Booking, error) {
	bookings, err := s.Bookings.ListAll(ctx)
	if err != nil {
		return nil, transient(err)
	}
	return s.sweep(ctx, bookings), nil
}

// sweep transitions past-due active bookings to completed. The returned
// slice is corrected unconditionally; persistence runs in parallel per
// booking and is best-effort, so a store hiccup delays the write but never
// shows the caller a stale active booking.
func (s *Reservation) sweep(ctx context.Context, bookings []model.Booking) []model.Booking {
	now := s.Clock.Now()
	var wg sync.WaitGroup
	for i := range bookings {
		if !bookings[i].Expired(now) {
			continue
		}
		if err := bookings[i].Complete(now); err != nil {
			continue
		}
		id := bookings[i].ID
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Bookings.MarkCompleted(ctx, id, now); err != nil && !errors.Is(err, repository.ErrNotActive) {
				log.Printf("sweep: completing booking %d failed: %v", id, err)
			}
		}()
	}
	wg.Wait()
	return bookings
}

// AvailableRooms returns the rooms of the requested capacity that can take
// a booking on date for [startTime, endTime): schedule covers the date and
// no active booking overlaps the slot. A room whose conflict check fails
// is treated as unavailable rather than bookable.
func (s *Reservation) AvailableRooms(ctx context.Context, capacity uint32, date, startTime, endTime string) ([]*model.Room, error) {
	day, err := model.ParseDate(date)
	if err != nil {
		return nil, ErrDateFormat
	}
	rooms, err := s.Rooms.ListByCapacity(ctx, capacity)
	if err != nil {
		return nil, transient(err)
	}

	out := make([]*model.Room, 0, len(rooms))
	for _, room := range rooms {
		if !room.AvailableOn(day) {
			continue
		}
		existing, err := s.Bookings.ActiveByRoomDate(ctx, room.ID, day)
		if err != nil {
			log.Printf("search: conflict check for room %s failed, treating as unavailable: %v", room.Number, err)
			continue
		}
		conflict, err := model.HasConflict(startTime, endTime, existing)
		if err != nil {
			return nil, err
		}
		if conflict {
			continue
		}
		out = append(out, room)
	}
	return out, nil
}

// DeleteRoom removes a room once nothing active references it. The count
// is read immediately before the destructive write.
func (s *Reservation) DeleteRoom(ctx context.Context, roomID uint64) error {
	n, err := s.Bookings.CountActiveByRoom(ctx, roomID)
	if err != nil {
		return transient(err)
	}
	if n > 0 {
		return ErrRoomHasActiveBookings
	}
	if err := s.Rooms.Delete(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return err
		}
		return transient(err)
	}
	return nil
}

// DeleteUser removes the user and every booking they own, any status. The
// bookings go first; if the user row then fails to delete, the error wraps
// ErrPartialDelete so the caller can tell a half-applied cascade from a
// total failure.
func (s *Reservation) DeleteUser(ctx context.Context, userID uint64) error {
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return err
		}
		return transient(err)
	}
	removed, err := s.Bookings.DeleteByUser(ctx, userID)
	if err != nil {
		return transient(err)
	}
	if err := s.Users.Delete(ctx, userID); err != nil {
		if removed > 0 {
			return fmt.Errorf("%w: %d bookings already removed: %v", ErrPartialDelete, removed, err)
		}
		return transient(err)
	}
	return nil
}

// publish sends the booking event without blocking the request and without
// letting a broker failure surface to the caller. The user lookup and the
// publish run on a detached context since the request may already be done.
func (s *Reservation) publish(b *model.Booking, cancelled bool) {
	if s.Events == nil {
		return
	}
	booking := *b
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		user, err := s.Users.GetByID(ctx, booking.UserID)
		if err != nil {
			log.Printf("notify: loading user %d failed: %v", booking.UserID, err)
			return
		}
		ev := queue.BookingEvent{
			BookingID:  booking.ID,
			UserID:     user.ID,
			UserName:   user.Name,
			UserEmail:  user.Email,
			RoomID:     booking.RoomID,
			RoomNumber: booking.RoomNumber,
			Date:       model.FormatDate(booking.Date),
			StartTime:  booking.StartTime,
			EndTime:    booking.EndTime,
			OccurredAt: s.Clock.Now().Format(time.RFC3339),
		}
		if cancelled {
			_ = s.Events.BookingCancelled(ctx, ev)
		} else {
			_ = s.Events.BookingConfirmed(ctx, ev)
		}
	}()
}

func transient(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hardeep74644/Library-Room-Booking-App/internal/model"
	"github.com/hardeep74644/Library-Room-Booking-App/internal/queue"
	"github.com/hardeep74644/Library-Room-Booking-App/internal/repository"
)

// fakeClock is a fixed clock the tests move by hand.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// memStore is an in-memory stand-in for the MySQL repositories. It
// implements RoomStore, BookingStore and UserStore with the same sentinel
// errors and the same conditional-insert semantics as the real thing.
type memStore struct {
	mu       sync.Mutex
	rooms    map[uint64]*model.Room
	bookings map[uint64]*model.Booking
	users    map[uint64]model.User
	nextID   uint64

	// beforeCreate runs once at the top of CreateIfFree, outside the lock.
	// Tests use it to take the slot between the pre-checks and the commit.
	beforeCreate func()

	failActiveByRoomDate bool
	failUserDelete       bool
}

var errStoreDown = errors.New("store down")

func newMemStore() *memStore {
	return &memStore{
		rooms:    make(map[uint64]*model.Room),
		bookings: make(map[uint64]*model.Booking),
		users:    make(map[uint64]model.User),
	}
}

func (s *memStore) addRoom(number string, capacity uint32, from, to time.Time) *model.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	room := &model.Room{ID: s.nextID, Number: number, Capacity: capacity, Floor: 1}
	_ = room.SetSchedule(from, to)
	s.rooms[room.ID] = room
	return room
}

func (s *memStore) addUser(name, email string, role model.Role) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	u := model.User{ID: s.nextID, Name: name, Email: email, Role: role}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addBooking(userID, roomID uint64, date time.Time, start, end string) *model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b := &model.Booking{
		ID: s.nextID, UserID: userID, RoomID: roomID,
		Date: model.DateOnly(date), StartTime: start, EndTime: end,
		Status: model.StatusActive,
	}
	s.bookings[b.ID] = b
	return b
}

// ----- RoomStore -----

func (s *memStore) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}
	cp := *room
	return &cp, nil
}

func (s *memStore) ListByCapacity(ctx context.Context, capacity uint32) ([]*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Room, 0)
	for _, room := range s.rooms {
		if room.Capacity == capacity {
			cp := *room
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) Delete(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[id]; !ok {
		return repository.ErrRoomNotFound
	}
	delete(s.rooms, id)
	return nil
}

// ----- BookingStore -----

func (s *memStore) bookingByID(id uint64) (*model.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *memStore) GetBookingByID(ctx context.Context, id uint64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookingByID(id)
}

func (s *memStore) ActiveByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Booking, 0)
	for _, b := range s.bookings {
		if b.UserID == userID && b.Status == model.StatusActive {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memStore) ActiveByRoomDate(ctx context.Context, roomID uint64, date time.Time) ([]model.Booking, error) {
	if s.failActiveByRoomDate {
		return nil, errStoreDown
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeByRoomDateLocked(roomID, date), nil
}

func (s *memStore) activeByRoomDateLocked(roomID uint64, date time.Time) []model.Booking {
	out := make([]model.Booking, 0)
	for _, b := range s.bookings {
		if b.RoomID == roomID && b.Status == model.StatusActive && b.Date.Equal(model.DateOnly(date)) {
			out = append(out, *b)
		}
	}
	return out
}

func (s *memStore) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Booking, 0)
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memStore) ListAll(ctx context.Context) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Booking, 0)
	for _, b := range s.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (s *memStore) CountActiveByRoom(ctx context.Context, roomID uint64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.bookings {
		if b.RoomID == roomID && b.Status == model.StatusActive {
			n++
		}
	}
	return n, nil
}

func (s *memStore) CreateIfFree(ctx context.Context, b *model.Booking) error {
	if hook := s.beforeCreate; hook != nil {
		s.beforeCreate = nil
		hook()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[b.RoomID]
	if !ok {
		return repository.ErrRoomNotFound
	}
	if !room.AvailableOn(b.Date) {
		return repository.ErrRoomUnavailable
	}
	conflict, err := model.HasConflict(b.StartTime, b.EndTime, s.activeByRoomDateLocked(b.RoomID, b.Date))
	if err != nil {
		return err
	}
	if conflict {
		return repository.ErrSlotTaken
	}
	s.nextID++
	b.ID = s.nextID
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *memStore) MarkCancelled(ctx context.Context, id uint64, at time.Time) error {
	return s.transition(id, model.StatusCancelled, at)
}

func (s *memStore) MarkCompleted(ctx context.Context, id uint64, at time.Time) error {
	return s.transition(id, model.StatusCompleted, at)
}

func (s *memStore) transition(id uint64, to model.Status, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok || b.Status != model.StatusActive {
		return repository.ErrNotActive
	}
	b.Status = to
	if to == model.StatusCancelled {
		b.CancelledAt = &at
	} else {
		b.CompletedAt = &at
	}
	return nil
}

func (s *memStore) DeleteByUser(ctx context.Context, userID uint64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, b := range s.bookings {
		if b.UserID == userID {
			delete(s.bookings, id)
			n++
		}
	}
	return n, nil
}

// ----- UserStore -----

func (s *memStore) GetUserByID(ctx context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (s *memStore) DeleteUser(ctx context.Context, id uint64) error {
	if s.failUserDelete {
		return errStoreDown
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

// Interface adapters. The store implements everything on one struct; the
// wrappers resolve the method-name collisions between the three interfaces.
type roomStore struct{ *memStore }

type bookingStore struct{ *memStore }

func (b bookingStore) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	return b.memStore.GetBookingByID(ctx, id)
}

type userStore struct{ *memStore }

func (u userStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return u.memStore.GetUserByID(ctx, id)
}

func (u userStore) Delete(ctx context.Context, id uint64) error {
	return u.memStore.DeleteUser(ctx, id)
}

// capturePublisher records published events and signals on a channel so
// tests can wait for the fire-and-forget goroutine.
type capturePublisher struct {
	mu        sync.Mutex
	confirmed []queue.BookingEvent
	cancelled []queue.BookingEvent
	signal    chan struct{}
}

func newCapturePublisher() *capturePublisher {
	return &capturePublisher{signal: make(chan struct{}, 16)}
}

func (p *capturePublisher) BookingConfirmed(ctx context.Context, ev queue.BookingEvent) error {
	p.mu.Lock()
	p.confirmed = append(p.confirmed, ev)
	p.mu.Unlock()
	p.signal <- struct{}{}
	return nil
}

func (p *capturePublisher) BookingCancelled(ctx context.Context, ev queue.BookingEvent) error {
	p.mu.Lock()
	p.cancelled = append(p.cancelled, ev)
	p.mu.Unlock()
	p.signal <- struct{}{}
	return nil
}

func (p *capturePublisher) wait(t *testing.T) {
	t.Helper()
	select {
	case <-p.signal:
	case <-time.After(2 * time.Second):
		t.Fatal("no event published within 2s")
	}
}

// ----- fixtures -----

var testNow = time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)

func newFixture() (*Reservation, *memStore, *capturePublisher, *fakeClock) {
	store := newMemStore()
	pub := newCapturePublisher()
	clock := &fakeClock{now: testNow}
	svc := NewReservation(roomStore{store}, bookingStore{store}, userStore{store}, pub, clock)
	return svc, store, pub, clock
}

func scheduleWindow() (time.Time, time.Time) {
	return testNow.AddDate(0, 0, -7), testNow.AddDate(0, 0, 30)
}

func TestCreateBooking(t *testing.T) {
	svc, store, pub, _ := newFixture()
	from, to := scheduleWindow()
	room := store.addRoom("101", 4, from, to)
	user := store.addUser("Asha", "asha@example.edu", model.RoleStudent)

	booking, err := svc.CreateBooking(context.Background(), user.ID, room.ID, "2026-09-02", "14:00", "15:00")
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if booking.ID == 0 || booking.Status != model.StatusActive {
		t.Errorf("booking = %+v", booking)
	}
	if booking.RoomNumber != "101" {
		t.Errorf("RoomNumber = %q", booking.RoomNumber)
	}
	if !booking.Date.Equal(time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v, want UTC midnight", booking.Date)
	}

	pub.wait(t)
	pub.mu.Lock()
	defer pub.mu.Unlock()
	if len(pub.confirmed) != 1 {
		t.Fatalf("confirmed events = %d", len(pub.confirmed))
	}
	ev := pub.confirmed[0]
	if ev.UserEmail != "asha@example.edu" || ev.RoomNumber != "101" || ev.Date != "2026-09-02" {
		t.Errorf("event = %+v", ev)
	}
}

func TestCreateBookingRejections(t *testing.T) {
	svc, store, _, _ := newFixture()
	from, to := scheduleWindow()
	room := store.addRoom("101", 4, from, to)
	noSched := store.addRoom("102", 4, time.Time{}, time.Time{})
	noSched.ClearSchedule()
	user := store.addUser("Asha", "asha@example.edu", model.RoleStudent)
	other := store.addUser("Ben", "ben@example.edu", model.RoleStudent)

	store.addBooking(other.ID, room.ID, testNow.AddDate(0, 0, 1), "10:00", "11:00")

	tests := []struct {
		name       string
		roomID     uint64
		date       string
		start, end string
		want       error
	}{
		{"bad start time", room.ID, "2026-09-02", "2pm", "15:00", model.ErrTimeFormat},
		{"bad end time", room.ID, "2026-09-02", "14:00", "late", model.ErrTimeFormat},
		{"end before start", room.ID, "2026-09-02", "15:00", "14:00", ErrInvalidInterval},
		{"zero-length slot", room.ID, "2026-09-02", "14:00", "14:00", ErrInvalidInterval},
		{"bad date", room.ID, "tomorrow", "14:00", "15:00", ErrDateFormat},
		{"past date", room.ID, "2026-08-31", "14:00", "15:00", ErrPastDate},
		{"before opening", room.ID, "2026-09-02", "08:00", "09:00", ErrOutsideHours},
		{"past closing", room.ID, "2026-09-02", "20:30", "21:30", ErrOutsideHours},
		{"unknown room", 9999, "2026-09-02", "14:00", "15:00", repository.ErrRoomNotFound},
		{"no schedule", noSched.ID, "2026-09-02", "14:00", "15:00", ErrRoomUnavailable},
		{"outside window", room.ID, "2026-12-01", "14:00", "15:00", ErrRoomUnavailable},
		{"slot taken", room.ID, "2026-09-02", "10:30", "11:30", ErrSlotConflict},
	}
	for _, tt := range tests {
		_, err := svc.CreateBooking(context.Background(), user.ID, tt.roomID, tt.date, tt.start, tt.end)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestCreateBookingSingleActivePolicy(t *testing.T) {
	svc, store, _, _ := newFixture()
	from, to := scheduleWindow()
	room := store.addRoom("101", 4, from, to)
	user := store.addUser("Asha", "asha@example.edu", model.RoleStudent)
	store.addBooking(user.ID, room.ID, testNow.AddDate(0, 0, 3), "14:00", "15:00")

	// The existing-booking check fires before date validation: the user
	// learns about their active booking even on an otherwise bad request.
	_, err := svc.CreateBooking(context.Background(), user.ID, room.ID, "2026-08-01", "14:00", "15:00")
	if !errors.Is(err, ErrAlreadyBooked) {
		t.Fatalf("got %v, want ErrAlreadyBooked", err)
	}
}

func TestCreateBookingTodayAllowed(t *testing.T) {
	svc, store, _, _ := newFixture()
	from, to := scheduleWindow()
	room := store.addRoom("101", 4, from, to)
	user := store.addUser("Asha", "asha@example.edu", model.RoleStudent)

	// testNow is 10:00 on 2026-09-01; booking the same calendar day is fine.
	if _, err := svc.CreateBooking(context.Background(), user.ID, room.ID, "2026-09-01", "14:00", "15:00"); err != nil {
		t.Fatalf("same-day booking rejected: %v", err)
	}
}

func TestCancelReleasesSlotToAnotherUser(t *testing.T) {
	svc, store, _, _ := newFixture()
	from, to := scheduleWindow()
	room := store.addRoom("101", 4, from, to)
	alice := store.addUser("Alice", "alice@example.edu", model.RoleStudent)
	bob := store.addUser("Bob", "bob@example.edu", model.RoleStudent)

	booked, err := svc.CreateBooking(context.Background(), alice.ID, room.ID, "2026-09-02", "14:00", "15:00")
	if err != nil {
		t.Fatalf("alice books: %v", err)
	}

	// Bob's overlapping request is refused while Alice holds the slot.
	if _, err := svc.CreateBooking(context.Background(), bob.ID, room.ID, "2026-09-02", "14:30", "15:30"); !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("bob overlap: got %v, want ErrSlotConflict", err)
	}

	if _, err := svc.CancelBooking(context.Background(), booked.ID, alice.ID, model.RoleStudent); err != nil {
		t.Fatalf("alice cancels: %v", err)
	}

	// The cancelled slot is free immediately; Bob's retry succeeds.
	got, err := svc.CreateBooking(context.Background(), bob.ID, room.ID, "2026-09-02", "14:30", "15:30")
	if err != nil {
		t.Fatalf("bob retries: %v", err)
	}
	if got.UserID != bob.ID || got.Status != model.StatusActive {
		t.Errorf("bob's booking = %+v", got)
	}
}

func TestCreateBookingRaceLost(t *testing.T) {
	svc, store, _, _ := newFixture()
	from, to := scheduleWindow()
	room := store.addRoom("101", 4, from, to)
	user := store.addUser("Asha", "asha@example.edu", model.RoleStudent)
	rival := store.addUser("Ben", "ben@example.edu", model.RoleStudent)

	// The rival takes the slot after the pre-checks pass but before the
	// conditional insert commits.
	store.beforeCreate = func() {
		store.addBooking(rival.ID, room.ID, testNow.AddDate(0, 0, 1), "14:00", "15:00")
	}

	_, err := svc.CreateBooking(context.Background(), user.ID, room.ID, "2026-09-02", "14:00", "15:00")
	if !errors.Is(err, ErrRaceLost) {
		t.Fatalf("got %v, want ErrRaceLost", err)
	}
}

func TestCreateBookingFailsClosed(t *testing.T) {
	svc, store, _, _ := newFixture()
	from, to := scheduleWindow()
	room := store.addRoom("101", 4, from, to)
	user := store.addUser("Asha", "asha@example.edu", model.RoleStudent)

	store.failActiveByRoomDate = true
	_, err := svc.CreateBooking(context.Background(), user.ID, room.ID, "2026-09-02", "14:00", "15:00")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("got %v, want ErrStoreUnavailable", err)
	}
}

func TestCancelBooking(t *testing.T) {
	svc, store, pub, _ := newFixture()
	from, to := scheduleWindow()
	room := store.addRoom("101", 4, from, to)
	owner := store.addUser("Asha", "asha@example.edu", model.RoleStudent)
	stranger := store.addUser("Ben", "ben@example.edu", model.RoleStudent)
	librarian := store.addUser("Lin", "lin@example.edu", model.RoleLibrarian)

	b := store.addBooking(owner.ID, room.ID, testNow.AddDate(0, 0, 1), "14:00", "15:00")

	if _, err := svc.CancelBooking(context.Background(), b.ID, stranger.ID, model.RoleStudent); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger cancel: got %v, want ErrForbidden", err)
	}

	got, err := svc.CancelBooking(context.Background(), b.ID, owner.ID, model.RoleStudent)
	if err != nil {
		t.Fatalf("owner cancel: %v", err)
	}
	if got.Status != model.StatusCancelled || got.CancelledAt == nil {
		t.Errorf("cancelled booking = %+v", got)
	}
	pub.wait(t)

	// terminal state: cancelling again fails and changes nothing
	if _, err := svc.CancelBooking(context.Background(), b.ID, owner.ID, model.RoleStudent); !errors.Is(err, model.ErrInvalidTransition) {
		t.Errorf("double cancel: got %v, want ErrInvalidTransition", err)
	}

	// the slot is free again and the owner can rebook it
	if _, err := svc.CreateBooking(context.Background(), owner.ID, room.ID, "2026-09-02", "14:00", "15:00"); err != nil {
		t.Fatalf("rebooking cancelled slot: %v", err)
	}

	// a librarian can cancel someone else's booking
	b2 := store.addBooking(stranger.ID, room.ID, testNow.AddDate(0, 0, 2), "16:00", "17:00")
	if _, err := svc.CancelBooking(context.Background(), b2.ID, librarian.ID, model.RoleLibrarian); err != nil {
		t.Errorf("librarian cancel: %v", err)
	}

	if _, err := svc.CancelBooking(context.Background(), 9999, owner.ID, model.RoleStudent); !errors.Is(err, repository.ErrBookingNotFound) {
		t.Errorf("unknown booking: got %v", err)
	}
}

func TestUserBookingsSweepsExpired(t *testing.T) {
	svc, store, _, clock := newFixture()
	from, to := scheduleWindow()
	room := store.addRoom("101", 4, from, to)
	user := store.addUser("Asha", "asha@example.edu", model.RoleStudent)

	past := store.addBooking(user.ID, room.ID, testNow, "10:00", "11:00")
	future := store.addBooking(user.ID, room.ID, testNow.AddDate(0, 0, 1), "10:00", "11:00")
	cancelled := store.addBooking(user.ID, room.ID, testNow, "12:00", "13:00")
	if err := store.MarkCancelled(context.Background(), cancelled.ID, testNow); err != nil {
		t.Fatalf("seed cancel: %v", err)
	}

	clock.Set(testNow.Add(5 * time.Hour)) // 15:00, past's slot ended at 11:00

	bookings, err := svc.UserBookings(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("UserBookings: %v", err)
	}

	status := make(map[uint64]model.Status, len(bookings))
	for _, b := range bookings {
		status[b.ID] = b.Status
	}
	if status[past.ID] != model.StatusCompleted {
		t.Errorf("past booking = %s, want completed", status[past.ID])
	}
	if status[future.ID] != model.StatusActive {
		t.Errorf("future booking = %s, want active", status[future.ID])
	}
	if status[cancelled.ID] != model.StatusCancelled {
		t.Errorf("cancelled booking = %s, want cancelled", status[cancelled.ID])
	}

	// the sweep persisted the completion, not just the returned copy
	persisted, err := store.GetBookingByID(context.Background(), past.ID)
	if err != nil {
		t.Fatalf("GetBookingByID: %v", err)
	}
	if persisted.Status != model.StatusCompleted {
		t.Errorf("persisted status = %s, want completed", persisted.Status)
	}

	// the future booking is still active, so a new one is still refused
	if _, err := svc.CreateBooking(context.Background(), user.ID, room.ID, "2026-09-05", "14:00", "15:00"); !errors.Is(err, ErrAlreadyBooked) {
		t.Errorf("got %v, want ErrAlreadyBooked while future booking active", err)
	}
}

func TestAvailableRooms(t *testing.T) {
	svc, store, _, _ := newFixture()
	from, to := scheduleWindow()
	free := store.addRoom("101", 4, from, to)
	busy := store.addRoom("102", 4, from, to)
	closed := store.addRoom("103", 4, from, to)
	closed.ClearSchedule()
	store.addRoom("201", 2, from, to) // wrong capacity

	renter := store.addUser("Ben", "ben@example.edu", model.RoleStudent)
	store.addBooking(renter.ID, busy.ID, testNow.AddDate(0, 0, 1), "14:00", "15:00")

	rooms, err := svc.AvailableRooms(context.Background(), 4, "2026-09-02", "14:30", "15:30")
	if err != nil {
		t.Fatalf("AvailableRooms: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != free.ID {
		t.Fatalf("rooms = %+v, want only room 101", rooms)
	}

	// a slot that merely touches the existing booking is fine
	rooms, err = svc.AvailableRooms(context.Background(), 4, "2026-09-02", "15:00", "16:00")
	if err != nil {
		t.Fatalf("AvailableRooms: %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("touching slot: got %d rooms, want 2", len(rooms))
	}

	if _, err := svc.AvailableRooms(context.Background(), 4, "someday", "14:00", "15:00"); !errors.Is(err, ErrDateFormat) {
		t.Errorf("bad date: got %v", err)
	}
}

func TestAvailableRoomsFailsClosed(t *testing.T) {
	svc, store, _, _ := newFixture()
	from, to := scheduleWindow()
	store.addRoom("101", 4, from, to)

	store.failActiveByRoomDate = true
	rooms, err := svc.AvailableRooms(context.Background(), 4, "2026-09-02", "14:00", "15:00")
	if err != nil {
		t.Fatalf("AvailableRooms: %v", err)
	}
	if len(rooms) != 0 {
		t.Errorf("unverifiable room offered as available: %+v", rooms)
	}
}

func TestDeleteRoom(t *testing.T) {
	svc, store, _, _ := newFixture()
	from, to := scheduleWindow()
	room := store.addRoom("101", 4, from, to)
	user := store.addUser("Asha", "asha@example.edu", model.RoleStudent)
	b := store.addBooking(user.ID, room.ID, testNow.AddDate(0, 0, 1), "14:00", "15:00")

	if err := svc.DeleteRoom(context.Background(), room.ID); !errors.Is(err, ErrRoomHasActiveBookings) {
		t.Fatalf("got %v, want ErrRoomHasActiveBookings", err)
	}

	if _, err := svc.CancelBooking(context.Background(), b.ID, user.ID, model.RoleStudent); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := svc.DeleteRoom(context.Background(), room.ID); err != nil {
		t.Fatalf("DeleteRoom after cancel: %v", err)
	}
	if err := svc.DeleteRoom(context.Background(), room.ID); !errors.Is(err, repository.ErrRoomNotFound) {
		t.Errorf("second delete: got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	svc, store, _, _ := newFixture()
	from, to := scheduleWindow()
	room := store.addRoom("101", 4, from, to)
	user := store.addUser("Asha", "asha@example.edu", model.RoleStudent)
	b := store.addBooking(user.ID, room.ID, testNow.AddDate(0, 0, 1), "14:00", "15:00")

	if err := svc.DeleteUser(context.Background(), user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := store.GetUserByID(context.Background(), user.ID); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("user still present: %v", err)
	}
	if _, err := store.GetBookingByID(context.Background(), b.ID); !errors.Is(err, repository.ErrBookingNotFound) {
		t.Errorf("booking still present: %v", err)
	}

	if err := svc.DeleteUser(context.Background(), user.ID); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("second delete: got %v", err)
	}
}

func TestDeleteUserPartialFailure(t *testing.T) {
	svc, store, _, _ := newFixture()
	from, to := scheduleWindow()
	room := store.addRoom("101", 4, from, to)
	user := store.addUser("Asha", "asha@example.edu", model.RoleStudent)
	store.addBooking(user.ID, room.ID, testNow.AddDate(0, 0, 1), "14:00", "15:00")

	store.failUserDelete = true
	err := svc.DeleteUser(context.Background(), user.ID)
	if !errors.Is(err, ErrPartialDelete) {
		t.Fatalf("got %v, want ErrPartialDelete", err)
	}

	// the bookings are gone even though the user record survived
	bookings, listErr := store.ListByUser(context.Background(), user.ID)
	if listErr != nil {
		t.Fatalf("ListByUser: %v", listErr)
	}
	if len(bookings) != 0 {
		t.Errorf("bookings survived the cascade: %+v", bookings)
	}
}

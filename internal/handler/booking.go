package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hardeep74644/Library-Room-Booking-App/internal/model"
	"github.com/hardeep74644/Library-Room-Booking-App/internal/service"
)

// BookingHandler serves the student booking flow: search for a free room,
// confirm a slot, list own bookings, cancel.
type BookingHandler struct {
	Reservations *service.Reservation
}

func NewBookingHandler(r *service.Reservation) *BookingHandler {
	return &BookingHandler{Reservations: r}
}

// queryCapacity parses the ?capacity= parameter. The search form offers
// only the capacities the library actually has rooms for.
func queryCapacity(c echo.Context) (uint32, error) {
	n, err := strconv.ParseUint(c.QueryParam("capacity"), 10, 32)
	if err != nil {
		return 0, errors.New("capacity must be a number")
	}
	switch n {
	case 2, 4:
		return uint32(n), nil
	}
	return 0, errors.New("capacity must be 2 or 4")
}

type createBookingReq struct {
	RoomID    uint64 `json:"room_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	Duration  string `json:"duration" validate:"required,oneof=30min 1hr 1.5hr 2hr"`
}

// Search lists rooms of the requested capacity that are free for the slot.
// GET /v1/rooms/available?capacity=4&date=2026-09-01&start_time=14:00&duration=1hr
func (h *BookingHandler) Search(c echo.Context) error {
	capacity, err := queryCapacity(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	date := c.QueryParam("date")
	start := c.QueryParam("start_time")
	if date == "" || start == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date and start_time are required"})
	}
	end, err := model.EndTime(start, model.Duration(c.QueryParam("duration")))
	if err != nil {
		return bookingError(c, err)
	}
	if !model.WithinOperatingHours(start, end) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": service.ErrOutsideHours.Error()})
	}

	rooms, err := h.Reservations.AvailableRooms(c.Request().Context(), capacity, date, start, end)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"rooms":      rooms,
		"date":       date,
		"start_time": start,
		"end_time":   end,
	})
}

// Create confirms a booking for the authenticated student.
// POST /v1/bookings
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	end, err := model.EndTime(req.StartTime, model.Duration(req.Duration))
	if err != nil {
		return bookingError(c, err)
	}

	booking, err := h.Reservations.CreateBooking(c.Request().Context(), userID, req.RoomID, req.Date, req.StartTime, end)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"booking": booking})
}

// Mine lists the authenticated user's bookings, newest first. Past-due
// active bookings come back already completed.
// GET /v1/bookings/my
func (h *BookingHandler) Mine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.Reservations.UserBookings(c.Request().Context(), userID)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// Cancel cancels one of the caller's bookings. A librarian may cancel any
// booking through the same endpoint.
// DELETE /v1/bookings/:id
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	booking, err := h.Reservations.CancelBooking(c.Request().Context(), bookingID, userID, getRole(c))
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": booking})
}

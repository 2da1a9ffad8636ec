package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hardeep74644/Library-Room-Booking-App/internal/model"
	"github.com/hardeep74644/Library-Room-Booking-App/internal/repository"
	"github.com/hardeep74644/Library-Room-Booking-App/internal/service"
)

// RoomStore is the room persistence the management endpoints need.
// *repository.RoomRepo satisfies it.
type RoomStore interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id uint64) (*model.Room, error)
	ListAll(ctx context.Context) ([]*model.Room, error)
	UpdateSchedule(ctx context.Context, id uint64, from, to *time.Time) error
}

// RoomHandler serves the librarian room management endpoints.
type RoomHandler struct {
	Rooms        RoomStore
	Reservations *service.Reservation
}

func NewRoomHandler(rooms RoomStore, r *service.Reservation) *RoomHandler {
	return &RoomHandler{Rooms: rooms, Reservations: r}
}

type createRoomReq struct {
	Number   string `json:"number" validate:"required,max=20"`
	Capacity uint32 `json:"capacity" validate:"required,oneof=2 4"`
	Floor    uint32 `json:"floor" validate:"required,min=1,max=20"`
}

type scheduleReq struct {
	AvailableFrom string `json:"available_from" validate:"required"`
	AvailableTo   string `json:"available_to" validate:"required"`
}

// Create adds a room. New rooms start without a schedule and reject every
// booking until a window is set.
// POST /v1/admin/rooms
func (h *RoomHandler) Create(c echo.Context) error {
	var req createRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	room := &model.Room{Number: req.Number, Capacity: req.Capacity, Floor: req.Floor}
	if err := h.Rooms.Create(c.Request().Context(), room); err != nil {
		if errors.Is(err, repository.ErrRoomNumberExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"room": room})
}

// List returns every room with its schedule.
// GET /v1/admin/rooms
func (h *RoomHandler) List(c echo.Context) error {
	rooms, err := h.Rooms.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list rooms failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

// Get returns a single room.
// GET /v1/admin/rooms/:id
func (h *RoomHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	room, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"room": room})
}

// SetSchedule replaces the room's availability window. Both ends are
// calendar dates and the window is inclusive; from and to may be equal for
// a one-day window.
// PUT /v1/admin/rooms/:id/schedule
func (h *RoomHandler) SetSchedule(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req scheduleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	from, err := model.ParseDate(req.AvailableFrom)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "available_from must be YYYY-MM-DD"})
	}
	to, err := model.ParseDate(req.AvailableTo)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "available_to must be YYYY-MM-DD"})
	}

	room, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	if err := room.SetSchedule(from, to); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "available_from must not be after available_to"})
	}
	if err := h.Rooms.UpdateSchedule(c.Request().Context(), id, room.AvailableFrom, room.AvailableTo); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"room": room})
}

// ClearSchedule removes the room's availability window. Existing bookings
// stay; the room just stops accepting new ones. The action cannot be
// undone, so the response says so instead of a silent 204.
// DELETE /v1/admin/rooms/:id/schedule
func (h *RoomHandler) ClearSchedule(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Rooms.UpdateSchedule(c.Request().Context(), id, nil, nil); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"warning": "schedule removed; this cannot be undone and the room will reject all bookings until a new window is set",
	})
}

// Delete removes a room. Rooms with active bookings cannot be deleted; the
// librarian has to cancel or wait out the bookings first.
// DELETE /v1/admin/rooms/:id
func (h *RoomHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Reservations.DeleteRoom(c.Request().Context(), id); err != nil {
		return bookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

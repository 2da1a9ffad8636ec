// Package handler implements the HTTP endpoints of the API. Handlers bind
// and validate the request, call the repository or reservation service, and
// translate sentinel errors into specific HTTP statuses and messages. Every
// rejection names the rule that was violated; a generic "failed" answer is
// reserved for genuinely unexpected errors.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/hardeep74644/Library-Room-Booking-App/internal/model"
	"github.com/hardeep74644/Library-Room-Booking-App/internal/repository"
	"github.com/hardeep74644/Library-Room-Booking-App/internal/service"
)

// Validator adapts go-playground/validator to Echo's Validator interface.
// Request DTOs declare `validate` tags and handlers call c.Validate.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{v: validator.New()}
}

func (cv *Validator) Validate(i interface{}) error {
	if err := cv.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// getUserID extracts the authenticated user's ID from the context. The JWT
// middleware stores the raw claim, which arrives as float64 from JSON
// decoding.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getRole extracts the authenticated user's role from the context.
func getRole(c echo.Context) model.Role {
	if s, ok := c.Get("role").(string); ok {
		return model.Role(s)
	}
	return ""
}

// bookingError maps reservation service errors onto HTTP responses. The
// mapping is shared by the booking and admin handlers.
func bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrTimeFormat),
		errors.Is(err, model.ErrUnknownDuration),
		errors.Is(err, service.ErrDateFormat),
		errors.Is(err, service.ErrInvalidInterval):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrPastDate),
		errors.Is(err, service.ErrOutsideHours),
		errors.Is(err, service.ErrRoomUnavailable):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyBooked),
		errors.Is(err, service.ErrSlotConflict),
		errors.Is(err, service.ErrRaceLost),
		errors.Is(err, service.ErrRoomHasActiveBookings),
		errors.Is(err, model.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrRoomNotFound),
		errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrStoreUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": service.ErrStoreUnavailable.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unexpected error"})
	}
}

// pathID parses a numeric :id path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hardeep74644/Library-Room-Booking-App/internal/model"
	"github.com/hardeep74644/Library-Room-Booking-App/internal/repository"
	"github.com/hardeep74644/Library-Room-Booking-App/internal/service"
)

// AdminHandler serves the librarian dashboard: the global booking list and
// user administration.
type AdminHandler struct {
	Users        *repository.UserRepo
	Tokens       *repository.TokenRepo
	Reservations *service.Reservation
}

func NewAdminHandler(users *repository.UserRepo, tokens *repository.TokenRepo, r *service.Reservation) *AdminHandler {
	return &AdminHandler{Users: users, Tokens: tokens, Reservations: r}
}

type updateRoleReq struct {
	Role string `json:"role" validate:"required,oneof=student librarian"`
}

// Bookings returns every booking in the system, newest first, swept for
// expiry the same way the student list is.
// GET /v1/admin/bookings
func (h *AdminHandler) Bookings(c echo.Context) error {
	bookings, err := h.Reservations.AllBookings(c.Request().Context())
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// ListUsers returns every registered user.
// GET /v1/admin/users
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.Users.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list users failed"})
	}
	out := make([]userPart, 0, len(users))
	for _, u := range users {
		out = append(out, userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// UpdateRole promotes or demotes a user. A librarian cannot change their
// own role; locking yourself out of the dashboard is too easy a mistake.
// PATCH /v1/admin/users/:id/role
func (h *AdminHandler) UpdateRole(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if id == actorID {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot change your own role"})
	}
	var req updateRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.Users.UpdateRole(c.Request().Context(), id, model.Role(req.Role)); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "role": req.Role})
}

// DeleteUser removes a user and every booking they own. A 500 here can mean
// the bookings were removed but the user row was not; the error message
// says so explicitly because the cascade is not transactional.
// DELETE /v1/admin/users/:id
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if id == actorID {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot delete your own account"})
	}
	// Revoke sessions first so a deleted account cannot keep refreshing.
	if err := h.Tokens.RevokeAllForUser(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke sessions failed"})
	}
	if err := h.Reservations.DeleteUser(c.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrPartialDelete) {
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "user delete incomplete: bookings removed but the account remains, retry the delete",
			})
		}
		return bookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

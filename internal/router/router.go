// Package router wires the HTTP routes and the middleware chain.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/hardeep74644/Library-Room-Booking-App/internal/config"
	"github.com/hardeep74644/Library-Room-Booking-App/internal/handler"
	"github.com/hardeep74644/Library-Room-Booking-App/internal/middleware"
	"github.com/hardeep74644/Library-Room-Booking-App/internal/repository"
	"github.com/hardeep74644/Library-Room-Booking-App/internal/service"
)

// New builds the Echo instance with every route registered. rdb may be nil,
// in which case rate limiting and response caching are disabled.
func New(cfg config.Config, db *sql.DB, rdb *redis.Client, reservations *service.Reservation) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	rooms := repository.NewRoomRepo(db)

	auth := handler.NewAuthHandler(cfg, users, tokens)
	bookings := handler.NewBookingHandler(reservations)
	roomAdmin := handler.NewRoomHandler(rooms, reservations)
	admin := handler.NewAdminHandler(users, tokens, reservations)

	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1")

	a := v1.Group("/auth")
	a.POST("/register", auth.Register)
	a.POST("/login", auth.Login)
	a.POST("/refresh", auth.Refresh)
	a.POST("/refresh-access", auth.RefreshAccess)
	a.POST("/logout", auth.Logout)

	cache := middleware.CacheJSON(config.LoadCacheConfig(), rdb)

	// Any signed-in user. Students and librarians share the booking flow;
	// ownership checks happen in the service.
	user := v1.Group("", middleware.JWTAuth(cfg.JWTSecret), middleware.RequireRole("student", "librarian"))
	user.GET("/auth/me", auth.Me)
	user.GET("/rooms/available", bookings.Search, cache)
	user.POST("/bookings", bookings.Create)
	user.GET("/bookings/my", bookings.Mine)
	user.DELETE("/bookings/:id", bookings.Cancel)

	// Librarian dashboard.
	adm := v1.Group("/admin", middleware.JWTAuth(cfg.JWTSecret), middleware.RequireRole("librarian"))
	adm.POST("/rooms", roomAdmin.Create)
	adm.GET("/rooms", roomAdmin.List, cache)
	adm.GET("/rooms/:id", roomAdmin.Get)
	adm.PUT("/rooms/:id/schedule", roomAdmin.SetSchedule)
	adm.DELETE("/rooms/:id/schedule", roomAdmin.ClearSchedule)
	adm.DELETE("/rooms/:id", roomAdmin.Delete)
	adm.GET("/bookings", admin.Bookings)
	adm.GET("/users", admin.ListUsers)
	adm.PATCH("/users/:id/role", admin.UpdateRole)
	adm.DELETE("/users/:id", admin.DeleteUser)

	return e
}

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/handler"
	"github.com/iliyamo/hotel-room-booking/internal/middleware"
)

// RegisterManager registers MANAGER-scoped endpoints under /v1.
// All routes require a valid JWT and MANAGER role.
func RegisterManager(e *echo.Echo, m *handler.ManagerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("MANAGER"),
	)

	// ---- Hotels ----
	g.POST("/hotels", m.CreateHotel)
	// NOTE: browsing all hotels is handled by the public API at
	// GET /v1/hotels; the manager-scoped list lives under /my-hotels
	// to avoid route conflicts.
	g.GET("/my-hotels", m.ListHotels)
	g.PUT("/hotels/:id", m.UpdateHotel)
	g.PATCH("/hotels/:id", m.UpdateHotel)
	g.DELETE("/hotels/:id", m.DeleteHotel)

	// ---- Room types ----
	g.POST("/hotels/:id/rooms", m.CreateRoom)
	g.GET("/my-hotels/:id/rooms", m.ListRooms)
	g.PUT("/rooms/:id", m.UpdateRoom)
	g.PATCH("/rooms/:id", m.UpdateRoom)
	g.DELETE("/rooms/:id", m.DeleteRoom)

	// ---- Bookings placed against a hotel ----
	g.GET("/hotels/:id/bookings", m.ListHotelBookings)
}

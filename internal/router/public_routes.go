package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/handler"
)

// RegisterPublic registers unauthenticated browse endpoints on the
// provided Echo instance.  The PublicHandler returns sanitized hotel,
// room and availability data for guests.  Optional middlewares
// (response cache, rate limiter) are applied to the whole group.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	// All hotels
	g.GET("/hotels", p.GetPublicHotels)
	// One hotel with its room types
	g.GET("/hotels/:id", p.GetPublicHotel)
	// Derived availability per room type for a half-open date range
	g.GET("/hotels/:id/availability", p.GetPublicAvailability)
}

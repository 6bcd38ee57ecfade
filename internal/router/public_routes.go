package router

import (
	"github.com/labstack/echo/v4"

	"github.com/skylane/flight-seat-booking/internal/handler"
)

// RegisterPublic registers the unauthenticated flight browse endpoints.
// Guests can search upcoming flights and inspect a flight's seat map
// before registering.  The cache middleware (a no-op without Redis)
// shields the database from repeated identical browses.
func RegisterPublic(e *echo.Echo, f *handler.FlightHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/flights", f.List, cache)
	e.GET("/v1/flights/:id", f.Get, cache)
}

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/skylane/flight-seat-booking/internal/handler"
	"github.com/skylane/flight-seat-booking/internal/middleware"
)

// RegisterBooking registers the booking endpoints under /v1.  Both
// roles may book; seat moves and passenger removal operate on a seat
// identified by its row and column within the booking.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "CUSTOMER"),
	)

	g.POST("/booking", b.Create)
	g.GET("/booking/:id", b.Get)
	g.PATCH("/booking/:bookingId/passengers/:row/:column", b.UpdatePassengerSeat)
	g.DELETE("/booking/:bookingId/passengers/:row/:column", b.RemovePassenger)
}

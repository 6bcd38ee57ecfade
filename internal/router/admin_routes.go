package router

import (
	"github.com/labstack/echo/v4"

	"github.com/skylane/flight-seat-booking/internal/handler"
	"github.com/skylane/flight-seat-booking/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1.  Admins
// manage planes and flights, break seats out of circulation and create
// manual bookings that bypass the seat selector.
func RegisterAdmin(e *echo.Echo, p *handler.PlaneHandler, f *handler.FlightHandler, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Planes ----
	g.POST("/planes", p.Create)
	g.GET("/planes", p.List)
	g.GET("/planes/:id", p.Get)
	g.PATCH("/planes/:id", p.Update)
	g.DELETE("/planes/:id", p.Delete)

	// ---- Flights ----
	// Browsing flights is public; only mutations live here.
	g.POST("/flights", f.Create)
	g.PATCH("/flights/:id", f.Update)
	g.DELETE("/flights/:id", f.Delete)
	g.POST("/flights/:id/breakSeats", f.BreakSeats)

	// ---- Manual bookings ----
	g.POST("/booking/manual-booking", b.Manual)
}

package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking-console/internal/handler"
	"github.com/iliyamo/venue-booking-console/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth; the protected /me endpoint lives under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("MANAGER", "ADMIN"))
	auth.GET("/me", a.Me)
}

// RegisterConsole registers the booking book and alert surface.  Every
// route requires a valid manager access token; both staff roles may
// read and mutate bookings and alert resolutions.
func RegisterConsole(e *echo.Echo, b *handler.BookingHandler, al *handler.AlertHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("MANAGER", "ADMIN"))

	// Booking book
	g.POST("/bookings", b.Create)
	g.GET("/bookings", b.List)
	g.GET("/bookings/:id", b.Get)
	g.PUT("/bookings/:id", b.Update)
	g.DELETE("/bookings/:id", b.Delete)
	g.POST("/bookings/:id/restore", b.Restore)
	g.GET("/audit", b.Audit)

	// Alerts
	g.GET("/alerts", al.List)
	g.GET("/alerts/preview", al.Preview)
	g.GET("/dashboard/alerts", al.Dashboard)
	g.GET("/bookings/:id/alerts", al.ForBooking)
	g.POST("/alerts/:id/resolve", al.Resolve)
	g.POST("/alerts/:id/dismiss", al.Dismiss)
	g.POST("/alerts/:id/reopen", al.Reopen)
}

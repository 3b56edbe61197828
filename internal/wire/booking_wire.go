package wire

import (
	"court-booking/internal/adaptor"
	"court-booking/pkg/middleware"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(log))

		// POST /api/bookings - Place a hold on a slot
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// POST /api/bookings/{id}/confirm - Confirm a pending hold
		r.Post("/api/bookings/{id}/confirm", bookingHandler.ConfirmBooking)

		// PUT /api/bookings/{id}/cancel - Cancel a confirmed booking
		r.Put("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)

		// GET /api/user/bookings?scope=upcoming|history - Own bookings
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		// Require both authentication AND admin role
		r.Use(middleware.Auth(log))
		r.Use(middleware.Admin(log))

		// GET /api/admin/bookings - Bookings across the admin's services
		r.Get("/", bookingHandler.GetAdminBookings)

		// PATCH /api/admin/bookings/{id}/payment - Adjust payment label
		r.Patch("/{id}/payment", bookingHandler.UpdatePaymentStatus)
	})
}

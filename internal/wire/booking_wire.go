package wire

import (
	"net/http"

	"court-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	inviteHandler *adaptor.InviteHandler,
	g guards,
	limiter func(http.Handler) http.Handler,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(g.auth)

		// POST /api/bookings - Create a booking, rate limited per user
		r.With(limiter).Post("/", bookingHandler.CreateBooking)

		// GET /api/bookings - Upcoming bookings, owned and joined as guest
		r.Get("/", bookingHandler.GetMyBookings)

		// DELETE /api/bookings/{id} - Cancel own booking
		r.Delete("/{id}", bookingHandler.CancelBooking)

		r.Route("/invites", func(r chi.Router) {
			r.Post("/", inviteHandler.CreateInvites)
			r.Get("/", inviteHandler.GetPendingInvites)

			// PATCH /api/bookings/invites/{id} - Accept or decline
			r.Patch("/{id}", inviteHandler.RespondInvite)

			// DELETE /api/bookings/invites/{id} - Leave an accepted booking
			r.Delete("/{id}", inviteHandler.LeaveInvite)
		})
	})
}

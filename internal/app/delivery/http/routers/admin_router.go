package routers

import (
	"mediq-service/internal/app/delivery/http/controllers"
	"mediq-service/internal/app/delivery/http/middlewares"
	"mediq-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachAdminRoutes(r chi.Router, mw *middlewares.Middlewares, adminController *controllers.AdminController, bookingController *controllers.BookingController) {
	r.Post("/login", adminController.Login)

	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(constvars.ActorRoleAdmin))
		r.Post("/doctors", adminController.AddDoctor)
		r.Get("/doctors", adminController.AllDoctors)
		r.Post("/change-availability", adminController.ChangeAvailability)
		r.Get("/appointments", adminController.AllAppointments)
		r.Post("/appointments/cancel", bookingController.CancelAppointment)
		r.Get("/dashboard", adminController.Dashboard)
	})
}

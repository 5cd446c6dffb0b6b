package routers

import (
	"mediq-service/internal/app/delivery/http/controllers"
	"mediq-service/internal/app/delivery/http/middlewares"
	"mediq-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachDoctorRoutes(r chi.Router, mw *middlewares.Middlewares, doctorController *controllers.DoctorController, bookingController *controllers.BookingController) {
	r.Post("/login", doctorController.Login)
	r.Get("/list", doctorController.List)

	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(constvars.ActorRoleDoctor))
		r.Get("/profile", doctorController.Profile)
		r.Put("/profile", doctorController.UpdateProfile)
		r.Post("/change-availability", doctorController.ChangeAvailability)
		r.Get("/appointments", doctorController.Appointments)
		r.Post("/appointments/complete", doctorController.CompleteAppointment)
		r.Post("/appointments/cancel", bookingController.CancelAppointment)
		r.Get("/dashboard", doctorController.Dashboard)
	})
}

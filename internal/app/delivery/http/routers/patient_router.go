package routers

import (
	"mediq-service/internal/app/delivery/http/controllers"
	"mediq-service/internal/app/delivery/http/middlewares"
	"mediq-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachPatientRoutes(r chi.Router, mw *middlewares.Middlewares, patientController *controllers.PatientController, bookingController *controllers.BookingController) {
	r.Post("/register", patientController.Register)
	r.Post("/login", patientController.Login)

	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(constvars.ActorRolePatient))
		r.Get("/profile", patientController.Profile)
		r.Put("/profile", patientController.UpdateProfile)
		r.Get("/appointments", patientController.Appointments)
		r.Post("/appointments", bookingController.BookSlot)
		r.Post("/appointments/cancel", bookingController.CancelAppointment)
	})
}

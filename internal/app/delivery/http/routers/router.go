package routers

import (
	"fmt"
	"time"

	"mediq-service/internal/app/config"
	"mediq-service/internal/app/delivery/http/controllers"
	"mediq-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	mw *middlewares.Middlewares,
	patientController *controllers.PatientController,
	doctorController *controllers.DoctorController,
	adminController *controllers.AdminController,
	bookingController *controllers.BookingController,
	webhookController *controllers.WebhookController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{internalConfig.App.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	router.Use(httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second))

	router.Use(mw.RequestIDMiddleware)
	router.Use(mw.Logging(mw.Log))
	router.Use(mw.ErrorHandler)

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/patient", func(r chi.Router) {
				attachPatientRoutes(r, mw, patientController, bookingController)
			})

			r.Route("/doctor", func(r chi.Router) {
				attachDoctorRoutes(r, mw, doctorController, bookingController)
			})

			r.Route("/admin", func(r chi.Router) {
				attachAdminRoutes(r, mw, adminController, bookingController)
			})

			r.Route("/webhooks", func(r chi.Router) {
				attachWebhookRoutes(r, mw, webhookController)
			})
		})
	})
}

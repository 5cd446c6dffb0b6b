package routers

import (
	"mediq-service/internal/app/delivery/http/controllers"
	"mediq-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachWebhookRoutes(r chi.Router, mw *middlewares.Middlewares, webhookController *controllers.WebhookController) {
	r.Group(func(r chi.Router) {
		r.Use(mw.VerifyWebhookSignature)
		r.Post("/payment", webhookController.HandlePaymentEvent)
	})
}

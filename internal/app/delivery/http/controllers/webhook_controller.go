package controllers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"mediq-service/internal/app/contracts"
	"mediq-service/internal/pkg/constvars"
	"mediq-service/internal/pkg/dto/requests"
	"mediq-service/internal/pkg/exceptions"
	"mediq-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type WebhookController struct {
	Log            *zap.Logger
	PaymentUsecase contracts.PaymentUsecase
}

var (
	webhookControllerInstance *WebhookController
	onceWebhookController     sync.Once
)

func NewWebhookController(logger *zap.Logger, paymentUsecase contracts.PaymentUsecase) *WebhookController {
	onceWebhookController.Do(func() {
		instance := &WebhookController{
			Log:            logger,
			PaymentUsecase: paymentUsecase,
		}
		webhookControllerInstance = instance
	})
	return webhookControllerInstance
}

// HandlePaymentEvent receives provider events whose signature the middleware
// already verified. Non-2xx responses make the provider redeliver, so only
// genuine processing failures return errors; unknown event types are 200.
func (ctrl *WebhookController) HandlePaymentEvent(w http.ResponseWriter, r *http.Request) {
	requestID, err := requestIDFromContext(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	event := new(requests.PaymentEvent)
	if err := json.NewDecoder(r.Body).Decode(event); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(event); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 25*time.Second)
	defer cancel()

	if err := ctrl.PaymentUsecase.HandlePaymentEvent(ctx, event); err != nil {
		ctrl.Log.Error("WebhookController.HandlePaymentEvent usecase error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEventIDKey, event.ID),
			zap.String(constvars.LoggingEventTypeKey, event.Type),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PaymentEventProcessedSuccessMessage, nil)
}

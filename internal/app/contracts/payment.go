package contracts

import (
	"context"

	"mediq-service/internal/pkg/dto/requests"
)

// PaymentUsecase reconciles asynchronous provider events with local state.
// Every handler is idempotent under redelivery and tolerant of reordering.
type PaymentUsecase interface {
	HandlePaymentEvent(ctx context.Context, event *requests.PaymentEvent) error
}

package contracts

import (
	"context"

	"mediq-service/internal/pkg/dto/requests"
	"mediq-service/internal/pkg/dto/responses"
)

// Actor identifies who asked for an operation. Identity is always passed
// explicitly; workflows never read it from ambient state.
type Actor struct {
	ID   string
	Role string
}

type BookingUsecase interface {
	// BookSlot reserves the slot and creates the pending appointment in one
	// atomic unit, then requests a checkout session and returns its URL.
	BookSlot(ctx context.Context, patientID string, request *requests.BookSlot) (*responses.BookSlot, error)

	// CancelAppointment is idempotent on already-cancelled records. For a
	// confirmed appointment the refund must succeed before any local state
	// changes; cancel plus slot release then commit together.
	CancelAppointment(ctx context.Context, actor Actor, appointmentID string) (*responses.CancelAppointment, error)
}

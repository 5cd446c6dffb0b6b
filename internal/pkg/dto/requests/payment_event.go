package requests

// Payment event kinds delivered by the checkout provider. Signature
// verification happens at the HTTP boundary; by the time an event reaches the
// reconciler it is authentic but possibly duplicated or out of order.
const (
	PaymentEventCompleted = "checkout.session.completed"
	PaymentEventExpired   = "checkout.session.expired"
	PaymentEventFailed    = "payment_intent.payment_failed"
)

type PaymentEventObject struct {
	// SessionID identifies the checkout attempt.
	SessionID string `json:"id"`
	// AppointmentID is the correlation metadata set at session creation.
	// Only present on completed events.
	AppointmentID string `json:"appointment_id,omitempty"`
	// PaymentIntentID is the capture reference. Only present once money moved.
	PaymentIntentID string `json:"payment_intent,omitempty"`
}

type PaymentEvent struct {
	ID   string             `json:"id" validate:"required"`
	Type string             `json:"type" validate:"required"`
	Data PaymentEventObject `json:"data"`
}

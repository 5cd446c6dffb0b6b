package contracts

import (
	"context"
	"time"
)

type CreateCheckoutSessionInput struct {
	// Amount is in major currency units; the gateway client converts to the
	// provider's subunits.
	Amount        int64
	Currency      string
	ProductName   string
	AppointmentID string
	ExpiresAt     time.Time
	SuccessURL    string
	CancelURL     string
}

type CheckoutSession struct {
	ID  string
	URL string
}

type CheckoutSessionStatus struct {
	ID              string
	Status          string
	PaymentIntentID string
}

const (
	CheckoutStatusOpen     = "open"
	CheckoutStatusComplete = "complete"
	CheckoutStatusExpired  = "expired"
)

type Refund struct {
	ID string
}

type PaymentGatewayService interface {
	CreateCheckoutSession(ctx context.Context, input *CreateCheckoutSessionInput) (*CheckoutSession, error)
	CreateRefund(ctx context.Context, paymentIntentID, reason string) (*Refund, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSessionStatus, error)
}

package contracts

import (
	"context"
	"time"

	"mediq-service/internal/app/models"
)

// AppointmentPredicate guards state-sensitive transitions: when Status is
// set, the update applies only while the record still holds that status.
// This conditional check is the sole replay-safety mechanism for payment
// events; no sequence numbers are assumed.
type AppointmentPredicate struct {
	Status *models.AppointmentStatus
}

// AppointmentPatch lists the mutable appointment fields. Nil means untouched.
type AppointmentPatch struct {
	Status            *models.AppointmentStatus
	CheckoutSessionID *string
	PaymentIntentID   *string
	PaidAt            *time.Time
	RefundID          *string
	RefundedAt        *time.Time
	IsCompleted       *bool
}

type AppointmentRepository interface {
	CreateAppointment(ctx context.Context, appointment *models.Appointment) (appointmentID string, err error)
	FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error)
	FindBySessionID(ctx context.Context, sessionID string) (*models.Appointment, error)
	FindByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	FindByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)
	FindAll(ctx context.Context) ([]models.Appointment, error)

	// FindStalePending returns pending appointments created before the cutoff,
	// fodder for the reconciliation sweep.
	FindStalePending(ctx context.Context, createdBefore time.Time) ([]models.Appointment, error)

	// UpdateIf is the compare-and-swap primitive shared by every status
	// transition. It reports whether a document matched; a false return with
	// nil error means the predicate no longer held (someone else won).
	UpdateIf(ctx context.Context, appointmentID string, predicate AppointmentPredicate, patch AppointmentPatch) (matched bool, err error)
}

// TransactionRunner groups repository calls into one atomic unit: everything
// fn does with the given context commits or rolls back together.
type TransactionRunner interface {
	RunTransaction(ctx context.Context, fn func(txCtx context.Context) error) error
}

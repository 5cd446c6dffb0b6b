package contracts

import (
	"context"

	"mediq-service/internal/app/models"
	"mediq-service/internal/pkg/dto/requests"
	"mediq-service/internal/pkg/dto/responses"
)

// DoctorProfilePatch carries the fields a doctor may change on their own
// profile. Slot mutations never go through here.
type DoctorProfilePatch struct {
	Fees      int64
	About     string
	Address   models.Address
	Available bool
}

type DoctorRepository interface {
	CreateDoctor(ctx context.Context, doctor *models.Doctor) (doctorID string, err error)
	FindByID(ctx context.Context, doctorID string) (*models.Doctor, error)
	FindByEmail(ctx context.Context, email string) (*models.Doctor, error)
	FindAll(ctx context.Context) ([]models.Doctor, error)
	UpdateProfile(ctx context.Context, doctorID string, patch DoctorProfilePatch) error
	ToggleAvailability(ctx context.Context, doctorID string) (*models.Doctor, error)

	// ReserveSlot is the slot ledger's only acquisition path: one conditional
	// update that matches the doctor only when they exist, are available, and
	// slotTime is absent under slotDate, and appends slotTime in the same
	// write. Concurrent attempts for the same slot see exactly one winner.
	// Returns ErrSlotUnavailable when the condition matched no document.
	ReserveSlot(ctx context.Context, doctorID, slotDate, slotTime string) (*models.Doctor, error)

	// ReleaseSlot removes slotTime from the set under slotDate. Removing an
	// absent entry is a no-op, never an error; release may race with
	// reconciliation.
	ReleaseSlot(ctx context.Context, doctorID, slotDate, slotTime string) error
}

type DoctorUsecase interface {
	Login(ctx context.Context, request *requests.Login) (*responses.Token, error)
	ListPublic(ctx context.Context) ([]models.Doctor, error)
	Profile(ctx context.Context, doctorID string) (*models.Doctor, error)
	UpdateProfile(ctx context.Context, doctorID string, request *requests.UpdateDoctorProfile) error
	ChangeAvailability(ctx context.Context, doctorID string) (*models.Doctor, error)
	Appointments(ctx context.Context, doctorID string) ([]models.Appointment, error)
	CompleteAppointment(ctx context.Context, doctorID, appointmentID string) error
	Dashboard(ctx context.Context, doctorID string) (*responses.DoctorDashboard, error)
}

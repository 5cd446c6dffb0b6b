package sweep

import (
	"context"
	"sync"
	"testing"
	"time"

	"mediq-service/internal/app/config"
	"mediq-service/internal/app/contracts"
	"mediq-service/internal/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLocker struct {
	denied bool
}

func (s *stubLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	if s.denied {
		return false, "", nil
	}
	return true, "token", nil
}

func (s *stubLocker) Unlock(ctx context.Context, key, token string) error { return nil }

func (s *stubLocker) Refresh(ctx context.Context, key, token string, expiration time.Duration) error {
	return nil
}

type stubAppointments struct {
	mu           sync.Mutex
	stale        []models.Appointment
	appointments map[string]*models.Appointment
	staleCalls   int
}

func newStubAppointments(stale ...models.Appointment) *stubAppointments {
	s := &stubAppointments{appointments: map[string]*models.Appointment{}}
	for _, appointment := range stale {
		copied := appointment
		s.stale = append(s.stale, copied)
		s.appointments[appointment.ID] = &copied
	}
	return s
}

func (s *stubAppointments) CreateAppointment(ctx context.Context, appointment *models.Appointment) (string, error) {
	return "", nil
}

func (s *stubAppointments) FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if appointment, ok := s.appointments[appointmentID]; ok {
		copied := *appointment
		return &copied, nil
	}
	return nil, nil
}

func (s *stubAppointments) FindBySessionID(ctx context.Context, sessionID string) (*models.Appointment, error) {
	return nil, nil
}

func (s *stubAppointments) FindByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return nil, nil
}

func (s *stubAppointments) FindByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return nil, nil
}

func (s *stubAppointments) FindAll(ctx context.Context) ([]models.Appointment, error) {
	return nil, nil
}

func (s *stubAppointments) FindStalePending(ctx context.Context, createdBefore time.Time) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staleCalls++
	return s.stale, nil
}

func (s *stubAppointments) UpdateIf(ctx context.Context, appointmentID string, predicate contracts.AppointmentPredicate, patch contracts.AppointmentPatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	appointment, ok := s.appointments[appointmentID]
	if !ok {
		return false, nil
	}
	if predicate.Status != nil && appointment.Status != *predicate.Status {
		return false, nil
	}
	if patch.Status != nil {
		appointment.Status = *patch.Status
	}
	if patch.PaymentIntentID != nil {
		appointment.PaymentIntentID = *patch.PaymentIntentID
	}
	if patch.PaidAt != nil {
		appointment.PaidAt = patch.PaidAt
	}
	return true, nil
}

type stubDoctors struct {
	mu       sync.Mutex
	released []string
}

func (s *stubDoctors) CreateDoctor(ctx context.Context, doctor *models.Doctor) (string, error) {
	return "", nil
}

func (s *stubDoctors) FindByID(ctx context.Context, doctorID string) (*models.Doctor, error) {
	return nil, nil
}

func (s *stubDoctors) FindByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	return nil, nil
}

func (s *stubDoctors) FindAll(ctx context.Context) ([]models.Doctor, error) { return nil, nil }

func (s *stubDoctors) UpdateProfile(ctx context.Context, doctorID string, patch contracts.DoctorProfilePatch) error {
	return nil
}

func (s *stubDoctors) ToggleAvailability(ctx context.Context, doctorID string) (*models.Doctor, error) {
	return nil, nil
}

func (s *stubDoctors) ReserveSlot(ctx context.Context, doctorID, slotDate, slotTime string) (*models.Doctor, error) {
	return nil, nil
}

func (s *stubDoctors) ReleaseSlot(ctx context.Context, doctorID, slotDate, slotTime string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = append(s.released, slotDate+"/"+slotTime)
	return nil
}

type stubGateway struct {
	statuses map[string]*contracts.CheckoutSessionStatus
}

func (s *stubGateway) CreateCheckoutSession(ctx context.Context, input *contracts.CreateCheckoutSessionInput) (*contracts.CheckoutSession, error) {
	return nil, nil
}

func (s *stubGateway) CreateRefund(ctx context.Context, paymentIntentID, reason string) (*contracts.Refund, error) {
	return nil, nil
}

func (s *stubGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*contracts.CheckoutSessionStatus, error) {
	if status, ok := s.statuses[sessionID]; ok {
		return status, nil
	}
	return &contracts.CheckoutSessionStatus{ID: sessionID, Status: contracts.CheckoutStatusExpired}, nil
}

type passthroughTxRunner struct{}

func (p *passthroughTxRunner) RunTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

func staleAppointment(id, sessionID string) models.Appointment {
	return models.Appointment{
		ID:                id,
		DoctorID:          "doc1",
		SlotDate:          "5_6_2025",
		SlotTime:          "10:00AM",
		Status:            models.AppointmentPending,
		CheckoutSessionID: sessionID,
	}
}

func newWorkerForTest(appointments *stubAppointments, doctorRepo *stubDoctors, gateway *stubGateway, lock *stubLocker) *Worker {
	cfg := &config.InternalConfig{
		App: config.App{CheckoutExpiryInMinutes: 30, SweepGraceInMinutes: 15, SweepCronSpec: "@every 10m"},
	}
	return NewWorker(zap.NewNop(), cfg, lock, appointments, doctorRepo, gateway, &passthroughTxRunner{})
}

func TestSweepRunOnce(t *testing.T) {
	t.Run("cancels stale pending with expired session and releases slot", func(t *testing.T) {
		appointments := newStubAppointments(staleAppointment("appt1", "cs_1"))
		doctorRepo := &stubDoctors{}
		worker := newWorkerForTest(appointments, doctorRepo, &stubGateway{}, &stubLocker{})

		worker.runOnce(context.Background())

		stored, _ := appointments.FindByID(context.Background(), "appt1")
		assert.Equal(t, models.AppointmentCancelled, stored.Status)
		assert.Equal(t, []string{"5_6_2025/10:00AM"}, doctorRepo.released)
	})

	t.Run("cancels stale pending that never got a session", func(t *testing.T) {
		appointments := newStubAppointments(staleAppointment("appt1", ""))
		doctorRepo := &stubDoctors{}
		worker := newWorkerForTest(appointments, doctorRepo, &stubGateway{}, &stubLocker{})

		worker.runOnce(context.Background())

		stored, _ := appointments.FindByID(context.Background(), "appt1")
		assert.Equal(t, models.AppointmentCancelled, stored.Status)
	})

	t.Run("confirms paid appointment whose completed event was lost", func(t *testing.T) {
		appointments := newStubAppointments(staleAppointment("appt1", "cs_1"))
		doctorRepo := &stubDoctors{}
		gateway := &stubGateway{statuses: map[string]*contracts.CheckoutSessionStatus{
			"cs_1": {ID: "cs_1", Status: contracts.CheckoutStatusComplete, PaymentIntentID: "pi_1"},
		}}
		worker := newWorkerForTest(appointments, doctorRepo, gateway, &stubLocker{})

		worker.runOnce(context.Background())

		stored, _ := appointments.FindByID(context.Background(), "appt1")
		assert.Equal(t, models.AppointmentConfirmed, stored.Status)
		assert.Equal(t, "pi_1", stored.PaymentIntentID)
		assert.Empty(t, doctorRepo.released)
	})

	t.Run("leaves still-open sessions alone", func(t *testing.T) {
		appointments := newStubAppointments(staleAppointment("appt1", "cs_1"))
		doctorRepo := &stubDoctors{}
		gateway := &stubGateway{statuses: map[string]*contracts.CheckoutSessionStatus{
			"cs_1": {ID: "cs_1", Status: contracts.CheckoutStatusOpen},
		}}
		worker := newWorkerForTest(appointments, doctorRepo, gateway, &stubLocker{})

		worker.runOnce(context.Background())

		stored, _ := appointments.FindByID(context.Background(), "appt1")
		assert.Equal(t, models.AppointmentPending, stored.Status)
	})

	t.Run("does nothing when leader lock is held elsewhere", func(t *testing.T) {
		appointments := newStubAppointments(staleAppointment("appt1", "cs_1"))
		worker := newWorkerForTest(appointments, &stubDoctors{}, &stubGateway{}, &stubLocker{denied: true})

		worker.runOnce(context.Background())

		require.Zero(t, appointments.staleCalls)
		stored, _ := appointments.FindByID(context.Background(), "appt1")
		assert.Equal(t, models.AppointmentPending, stored.Status)
	})
}

package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"mediq-service/internal/app/config"
	"mediq-service/internal/app/contracts"
	"mediq-service/internal/app/models"
	"mediq-service/internal/pkg/constvars"
	"mediq-service/internal/pkg/dto/requests"
	"mediq-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDoctorRepository struct {
	mu        sync.Mutex
	doctor    models.Doctor
	released  []string
	reserveCt int
}

func newFakeDoctorRepository() *fakeDoctorRepository {
	return &fakeDoctorRepository{
		doctor: models.Doctor{
			ID:          "doc1",
			Name:        "Dr. Richard James",
			Available:   true,
			Fees:        500,
			SlotsBooked: map[string][]string{},
		},
	}
}

func (f *fakeDoctorRepository) CreateDoctor(ctx context.Context, doctor *models.Doctor) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeDoctorRepository) FindByID(ctx context.Context, doctorID string) (*models.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doctor := f.doctor
	return &doctor, nil
}

func (f *fakeDoctorRepository) FindByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	return nil, nil
}

func (f *fakeDoctorRepository) FindAll(ctx context.Context) ([]models.Doctor, error) {
	return nil, nil
}

func (f *fakeDoctorRepository) UpdateProfile(ctx context.Context, doctorID string, patch contracts.DoctorProfilePatch) error {
	return nil
}

func (f *fakeDoctorRepository) ToggleAvailability(ctx context.Context, doctorID string) (*models.Doctor, error) {
	return nil, nil
}

func (f *fakeDoctorRepository) ReserveSlot(ctx context.Context, doctorID, slotDate, slotTime string) (*models.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reserveCt++
	if doctorID != f.doctor.ID || !f.doctor.Available {
		return nil, exceptions.ErrSlotUnavailable(nil)
	}
	for _, taken := range f.doctor.SlotsBooked[slotDate] {
		if taken == slotTime {
			return nil, exceptions.ErrSlotUnavailable(nil)
		}
	}
	f.doctor.SlotsBooked[slotDate] = append(f.doctor.SlotsBooked[slotDate], slotTime)
	doctor := f.doctor
	return &doctor, nil
}

func (f *fakeDoctorRepository) ReleaseSlot(ctx context.Context, doctorID, slotDate, slotTime string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, slotDate+"/"+slotTime)
	kept := f.doctor.SlotsBooked[slotDate][:0]
	for _, taken := range f.doctor.SlotsBooked[slotDate] {
		if taken != slotTime {
			kept = append(kept, taken)
		}
	}
	f.doctor.SlotsBooked[slotDate] = kept
	return nil
}

type fakePatientRepository struct {
	patient *models.Patient
}

func (f *fakePatientRepository) CreatePatient(ctx context.Context, patient *models.Patient) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakePatientRepository) FindByID(ctx context.Context, patientID string) (*models.Patient, error) {
	if f.patient != nil && f.patient.ID == patientID {
		patient := *f.patient
		return &patient, nil
	}
	return nil, nil
}

func (f *fakePatientRepository) FindByEmail(ctx context.Context, email string) (*models.Patient, error) {
	return nil, nil
}

func (f *fakePatientRepository) UpdateProfile(ctx context.Context, patient *models.Patient) error {
	return nil
}

func (f *fakePatientRepository) CountPatients(ctx context.Context) (int64, error) {
	return 0, nil
}

type fakeAppointmentRepository struct {
	mu           sync.Mutex
	seq          int
	appointments map[string]*models.Appointment
}

func newFakeAppointmentRepository() *fakeAppointmentRepository {
	return &fakeAppointmentRepository{appointments: map[string]*models.Appointment{}}
}

func (f *fakeAppointmentRepository) CreateAppointment(ctx context.Context, appointment *models.Appointment) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	id := fmt.Sprintf("appt%d", f.seq)
	stored := *appointment
	stored.ID = id
	f.appointments[id] = &stored
	return id, nil
}

func (f *fakeAppointmentRepository) FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	appointment, ok := f.appointments[appointmentID]
	if !ok {
		return nil, nil
	}
	copied := *appointment
	return &copied, nil
}

func (f *fakeAppointmentRepository) FindBySessionID(ctx context.Context, sessionID string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, appointment := range f.appointments {
		if appointment.CheckoutSessionID == sessionID {
			copied := *appointment
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeAppointmentRepository) FindByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointmentRepository) FindByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointmentRepository) FindAll(ctx context.Context) ([]models.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointmentRepository) FindStalePending(ctx context.Context, createdBefore time.Time) ([]models.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointmentRepository) UpdateIf(ctx context.Context, appointmentID string, predicate contracts.AppointmentPredicate, patch contracts.AppointmentPatch) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	appointment, ok := f.appointments[appointmentID]
	if !ok {
		return false, nil
	}
	if predicate.Status != nil && appointment.Status != *predicate.Status {
		return false, nil
	}
	if patch.Status != nil {
		appointment.Status = *patch.Status
	}
	if patch.CheckoutSessionID != nil {
		appointment.CheckoutSessionID = *patch.CheckoutSessionID
	}
	if patch.PaymentIntentID != nil {
		appointment.PaymentIntentID = *patch.PaymentIntentID
	}
	if patch.PaidAt != nil {
		appointment.PaidAt = patch.PaidAt
	}
	if patch.RefundID != nil {
		appointment.RefundID = *patch.RefundID
	}
	if patch.RefundedAt != nil {
		appointment.RefundedAt = patch.RefundedAt
	}
	if patch.IsCompleted != nil {
		appointment.IsCompleted = *patch.IsCompleted
	}
	return true, nil
}

type fakeTransactionRunner struct{}

func (f *fakeTransactionRunner) RunTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakePaymentGateway struct {
	mu             sync.Mutex
	sessionErr     error
	refundErr      error
	sessionCount   int
	refundCount    int
	lastSessionIn  *contracts.CreateCheckoutSessionInput
	sessionsStatus map[string]*contracts.CheckoutSessionStatus
}

func (f *fakePaymentGateway) CreateCheckoutSession(ctx context.Context, input *contracts.CreateCheckoutSessionInput) (*contracts.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	f.sessionCount++
	f.lastSessionIn = input
	return &contracts.CheckoutSession{
		ID:  fmt.Sprintf("cs_test_%d", f.sessionCount),
		URL: "https://checkout.example.com/pay",
	}, nil
}

func (f *fakePaymentGateway) CreateRefund(ctx context.Context, paymentIntentID, reason string) (*contracts.Refund, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refundErr != nil {
		return nil, f.refundErr
	}
	f.refundCount++
	return &contracts.Refund{ID: fmt.Sprintf("re_test_%d", f.refundCount)}, nil
}

func (f *fakePaymentGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*contracts.CheckoutSessionStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status, ok := f.sessionsStatus[sessionID]; ok {
		return status, nil
	}
	return &contracts.CheckoutSessionStatus{ID: sessionID, Status: contracts.CheckoutStatusExpired}, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	kinds []string
}

func (f *fakeNotifier) PublishAppointmentEvent(ctx context.Context, notification *contracts.AppointmentNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kinds = append(f.kinds, notification.Kind)
	return nil
}

type bookingFixture struct {
	doctors      *fakeDoctorRepository
	patients     *fakePatientRepository
	appointments *fakeAppointmentRepository
	gateway      *fakePaymentGateway
	notifier     *fakeNotifier
	usecase      *bookingUsecase
}

func newBookingFixture() *bookingFixture {
	doctorsRepo := newFakeDoctorRepository()
	patientsRepo := &fakePatientRepository{patient: &models.Patient{ID: "pat1", Name: "Aisha", Email: "aisha@example.com"}}
	appointmentsRepo := newFakeAppointmentRepository()
	gateway := &fakePaymentGateway{}
	notifierSvc := &fakeNotifier{}
	cfg := &config.InternalConfig{
		App: config.App{CheckoutExpiryInMinutes: 30},
		PaymentGateway: config.AppPaymentGateway{
			CheckoutCurrency: "inr",
			RefundReason:     "requested_by_customer",
		},
	}
	usecase := &bookingUsecase{
		DoctorRepository:      doctorsRepo,
		PatientRepository:     patientsRepo,
		AppointmentRepository: appointmentsRepo,
		TransactionRunner:     &fakeTransactionRunner{},
		PaymentGateway:        gateway,
		Notifier:              notifierSvc,
		InternalConfig:        cfg,
		Log:                   zap.NewNop(),
	}
	return &bookingFixture{
		doctors:      doctorsRepo,
		patients:     patientsRepo,
		appointments: appointmentsRepo,
		gateway:      gateway,
		notifier:     notifierSvc,
		usecase:      usecase,
	}
}

func TestBookSlot(t *testing.T) {
	bookRequest := &requests.BookSlot{DoctorID: "doc1", SlotDate: "5_6_2025", SlotTime: "10:00AM"}

	t.Run("creates pending appointment and returns checkout URL", func(t *testing.T) {
		fx := newBookingFixture()

		response, err := fx.usecase.BookSlot(context.Background(), "pat1", bookRequest)
		require.NoError(t, err)
		assert.NotEmpty(t, response.AppointmentID)
		assert.Equal(t, "https://checkout.example.com/pay", response.CheckoutURL)

		appointment, _ := fx.appointments.FindByID(context.Background(), response.AppointmentID)
		require.NotNil(t, appointment)
		assert.Equal(t, models.AppointmentPending, appointment.Status)
		assert.Equal(t, int64(500), appointment.Amount)
		assert.Equal(t, "cs_test_1", appointment.CheckoutSessionID)
		assert.Equal(t, models.SnapshotVersion, appointment.DoctorData.Version)
		assert.Equal(t, "Aisha", appointment.PatientData.Name)

		require.NotNil(t, fx.gateway.lastSessionIn)
		assert.Equal(t, response.AppointmentID, fx.gateway.lastSessionIn.AppointmentID)
		assert.Equal(t, int64(500), fx.gateway.lastSessionIn.Amount)
	})

	t.Run("same slot twice yields one winner", func(t *testing.T) {
		fx := newBookingFixture()

		_, err := fx.usecase.BookSlot(context.Background(), "pat1", bookRequest)
		require.NoError(t, err)

		_, err = fx.usecase.BookSlot(context.Background(), "pat1", bookRequest)
		require.Error(t, err)
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)
	})

	t.Run("concurrent attempts on one slot see exactly one winner", func(t *testing.T) {
		fx := newBookingFixture()
		const attempts = 16

		var wg sync.WaitGroup
		results := make(chan error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := fx.usecase.BookSlot(context.Background(), "pat1", bookRequest)
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		var wins, losses int
		for err := range results {
			if err == nil {
				wins++
				continue
			}
			var customErr *exceptions.CustomError
			require.ErrorAs(t, err, &customErr)
			assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)
			losses++
		}
		assert.Equal(t, 1, wins)
		assert.Equal(t, attempts-1, losses)
	})

	t.Run("different times on the same day do not collide", func(t *testing.T) {
		fx := newBookingFixture()

		_, err := fx.usecase.BookSlot(context.Background(), "pat1", bookRequest)
		require.NoError(t, err)

		_, err = fx.usecase.BookSlot(context.Background(), "pat1", &requests.BookSlot{
			DoctorID: "doc1", SlotDate: "5_6_2025", SlotTime: "11:00AM",
		})
		require.NoError(t, err)
	})

	t.Run("unknown patient is rejected before any reservation", func(t *testing.T) {
		fx := newBookingFixture()

		_, err := fx.usecase.BookSlot(context.Background(), "ghost", bookRequest)
		require.Error(t, err)
		assert.Zero(t, fx.doctors.reserveCt)
	})

	t.Run("gateway failure leaves appointment pending without session reference", func(t *testing.T) {
		fx := newBookingFixture()
		fx.gateway.sessionErr = exceptions.ErrGatewayCreateSession(errors.New("boom"))

		_, err := fx.usecase.BookSlot(context.Background(), "pat1", bookRequest)
		require.Error(t, err)

		appointment, _ := fx.appointments.FindByID(context.Background(), "appt1")
		require.NotNil(t, appointment)
		assert.Equal(t, models.AppointmentPending, appointment.Status)
		assert.Empty(t, appointment.CheckoutSessionID)
	})
}

func TestCancelAppointment(t *testing.T) {
	bookRequest := &requests.BookSlot{DoctorID: "doc1", SlotDate: "5_6_2025", SlotTime: "10:00AM"}
	patientActor := contracts.Actor{ID: "pat1", Role: constvars.ActorRolePatient}

	book := func(t *testing.T, fx *bookingFixture) string {
		t.Helper()
		response, err := fx.usecase.BookSlot(context.Background(), "pat1", bookRequest)
		require.NoError(t, err)
		return response.AppointmentID
	}

	confirm := func(t *testing.T, fx *bookingFixture, appointmentID, paymentIntentID string) {
		t.Helper()
		pending := models.AppointmentPending
		confirmed := models.AppointmentConfirmed
		patch := contracts.AppointmentPatch{Status: &confirmed}
		if paymentIntentID != "" {
			patch.PaymentIntentID = &paymentIntentID
		}
		matched, err := fx.appointments.UpdateIf(context.Background(), appointmentID,
			contracts.AppointmentPredicate{Status: &pending}, patch)
		require.NoError(t, err)
		require.True(t, matched)
	}

	t.Run("pending cancel releases the slot without refund", func(t *testing.T) {
		fx := newBookingFixture()
		appointmentID := book(t, fx)

		response, err := fx.usecase.CancelAppointment(context.Background(), patientActor, appointmentID)
		require.NoError(t, err)
		assert.Empty(t, response.RefundID)
		assert.Zero(t, fx.gateway.refundCount)
		assert.Equal(t, []string{"5_6_2025/10:00AM"}, fx.doctors.released)

		appointment, _ := fx.appointments.FindByID(context.Background(), appointmentID)
		assert.Equal(t, models.AppointmentCancelled, appointment.Status)
	})

	t.Run("slot is rebookable after cancel", func(t *testing.T) {
		fx := newBookingFixture()
		appointmentID := book(t, fx)

		_, err := fx.usecase.CancelAppointment(context.Background(), patientActor, appointmentID)
		require.NoError(t, err)

		_, err = fx.usecase.BookSlot(context.Background(), "pat1", bookRequest)
		require.NoError(t, err)
	})

	t.Run("releasing an already released slot is a harmless no-op", func(t *testing.T) {
		fx := newBookingFixture()
		appointmentID := book(t, fx)

		// Release may race with reconciliation; a cancel arriving after the
		// slot is already free must still succeed.
		require.NoError(t, fx.doctors.ReleaseSlot(context.Background(), "doc1", "5_6_2025", "10:00AM"))

		_, err := fx.usecase.CancelAppointment(context.Background(), patientActor, appointmentID)
		require.NoError(t, err)
		assert.Equal(t, []string{"5_6_2025/10:00AM", "5_6_2025/10:00AM"}, fx.doctors.released)

		// The ledger holds the slot exactly once afterward: one rebooking
		// wins, the next conflicts.
		_, err = fx.usecase.BookSlot(context.Background(), "pat1", bookRequest)
		require.NoError(t, err)
		_, err = fx.usecase.BookSlot(context.Background(), "pat1", bookRequest)
		require.Error(t, err)
	})

	t.Run("confirmed cancel refunds before flipping state", func(t *testing.T) {
		fx := newBookingFixture()
		appointmentID := book(t, fx)
		confirm(t, fx, appointmentID, "pi_test_1")

		response, err := fx.usecase.CancelAppointment(context.Background(), patientActor, appointmentID)
		require.NoError(t, err)
		assert.Equal(t, "re_test_1", response.RefundID)

		appointment, _ := fx.appointments.FindByID(context.Background(), appointmentID)
		assert.Equal(t, models.AppointmentCancelled, appointment.Status)
		assert.Equal(t, "re_test_1", appointment.RefundID)
		assert.NotNil(t, appointment.RefundedAt)
		assert.Equal(t, []string{"5_6_2025/10:00AM"}, fx.doctors.released)
	})

	t.Run("refund failure leaves everything untouched", func(t *testing.T) {
		fx := newBookingFixture()
		appointmentID := book(t, fx)
		confirm(t, fx, appointmentID, "pi_test_1")
		fx.gateway.refundErr = exceptions.ErrGatewayCreateRefund(errors.New("gateway down"))

		_, err := fx.usecase.CancelAppointment(context.Background(), patientActor, appointmentID)
		require.Error(t, err)

		appointment, _ := fx.appointments.FindByID(context.Background(), appointmentID)
		assert.Equal(t, models.AppointmentConfirmed, appointment.Status)
		assert.Empty(t, appointment.RefundID)
		assert.Empty(t, fx.doctors.released)
	})

	t.Run("confirmed without capture reference is rejected", func(t *testing.T) {
		fx := newBookingFixture()
		appointmentID := book(t, fx)
		confirm(t, fx, appointmentID, "")

		_, err := fx.usecase.CancelAppointment(context.Background(), patientActor, appointmentID)
		require.Error(t, err)
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
		assert.Zero(t, fx.gateway.refundCount)
	})

	t.Run("already cancelled is an idempotent success", func(t *testing.T) {
		fx := newBookingFixture()
		appointmentID := book(t, fx)
		confirm(t, fx, appointmentID, "pi_test_1")

		first, err := fx.usecase.CancelAppointment(context.Background(), patientActor, appointmentID)
		require.NoError(t, err)

		second, err := fx.usecase.CancelAppointment(context.Background(), patientActor, appointmentID)
		require.NoError(t, err)
		assert.Equal(t, first.RefundID, second.RefundID)
		assert.Equal(t, 1, fx.gateway.refundCount)
		assert.Len(t, fx.doctors.released, 1)
	})

	t.Run("non-owning patient is rejected", func(t *testing.T) {
		fx := newBookingFixture()
		appointmentID := book(t, fx)

		_, err := fx.usecase.CancelAppointment(context.Background(), contracts.Actor{ID: "pat2", Role: constvars.ActorRolePatient}, appointmentID)
		require.Error(t, err)
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusUnauthorized, customErr.StatusCode)
	})

	t.Run("admin may cancel any appointment", func(t *testing.T) {
		fx := newBookingFixture()
		appointmentID := book(t, fx)

		_, err := fx.usecase.CancelAppointment(context.Background(), contracts.Actor{ID: "admin@mediq.local", Role: constvars.ActorRoleAdmin}, appointmentID)
		require.NoError(t, err)
	})

	t.Run("unknown appointment yields not found", func(t *testing.T) {
		fx := newBookingFixture()

		_, err := fx.usecase.CancelAppointment(context.Background(), patientActor, "missing")
		require.Error(t, err)
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})
}

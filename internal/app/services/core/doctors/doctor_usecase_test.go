package doctors

import (
	"context"
	"sync"
	"testing"
	"time"

	"mediq-service/internal/app/contracts"
	"mediq-service/internal/app/models"
	"mediq-service/internal/pkg/constvars"
	"mediq-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryDoctorRepository struct {
	doctors   []models.Doctor
	findCalls int
}

func (m *memoryDoctorRepository) CreateDoctor(ctx context.Context, doctor *models.Doctor) (string, error) {
	return "", nil
}

func (m *memoryDoctorRepository) FindByID(ctx context.Context, doctorID string) (*models.Doctor, error) {
	for _, doctor := range m.doctors {
		if doctor.ID == doctorID {
			copied := doctor
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memoryDoctorRepository) FindByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	return nil, nil
}

func (m *memoryDoctorRepository) FindAll(ctx context.Context) ([]models.Doctor, error) {
	m.findCalls++
	return m.doctors, nil
}

func (m *memoryDoctorRepository) UpdateProfile(ctx context.Context, doctorID string, patch contracts.DoctorProfilePatch) error {
	return nil
}

func (m *memoryDoctorRepository) ToggleAvailability(ctx context.Context, doctorID string) (*models.Doctor, error) {
	for i := range m.doctors {
		if m.doctors[i].ID == doctorID {
			m.doctors[i].Available = !m.doctors[i].Available
			copied := m.doctors[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memoryDoctorRepository) ReserveSlot(ctx context.Context, doctorID, slotDate, slotTime string) (*models.Doctor, error) {
	return nil, exceptions.ErrSlotUnavailable(nil)
}

func (m *memoryDoctorRepository) ReleaseSlot(ctx context.Context, doctorID, slotDate, slotTime string) error {
	return nil
}

type memoryAppointmentRepository struct {
	mu           sync.Mutex
	appointments []models.Appointment
	completed    []string
}

func (m *memoryAppointmentRepository) CreateAppointment(ctx context.Context, appointment *models.Appointment) (string, error) {
	return "", nil
}

func (m *memoryAppointmentRepository) FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	for _, appointment := range m.appointments {
		if appointment.ID == appointmentID {
			copied := appointment
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memoryAppointmentRepository) FindBySessionID(ctx context.Context, sessionID string) (*models.Appointment, error) {
	return nil, nil
}

func (m *memoryAppointmentRepository) FindByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return nil, nil
}

func (m *memoryAppointmentRepository) FindByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, appointment := range m.appointments {
		if appointment.DoctorID == doctorID {
			out = append(out, appointment)
		}
	}
	return out, nil
}

func (m *memoryAppointmentRepository) FindAll(ctx context.Context) ([]models.Appointment, error) {
	return m.appointments, nil
}

func (m *memoryAppointmentRepository) FindStalePending(ctx context.Context, createdBefore time.Time) ([]models.Appointment, error) {
	return nil, nil
}

func (m *memoryAppointmentRepository) UpdateIf(ctx context.Context, appointmentID string, predicate contracts.AppointmentPredicate, patch contracts.AppointmentPatch) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if patch.IsCompleted != nil && *patch.IsCompleted {
		m.completed = append(m.completed, appointmentID)
	}
	return true, nil
}

type memoryRedis struct {
	mu     sync.Mutex
	values map[string]string
	sets   int
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{values: map[string]string{}}
}

func (m *memoryRedis) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

// Set stores the JSON encoding, same as the real repository.
func (m *memoryRedis) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = string(encoded)
	m.sets++
	return nil
}

func (m *memoryRedis) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *memoryRedis) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	return true, nil
}

func newDoctorUsecaseForTest(repo *memoryDoctorRepository, appointments *memoryAppointmentRepository, redis *memoryRedis) *doctorUsecase {
	return &doctorUsecase{
		DoctorRepository:      repo,
		AppointmentRepository: appointments,
		RedisRepository:       redis,
		Log:                   zap.NewNop(),
	}
}

func TestListPublic(t *testing.T) {
	doctor := models.Doctor{ID: "doc1", Name: "Dr. Richard James", Available: true, Fees: 500}

	t.Run("cold cache hits the repository and warms the cache", func(t *testing.T) {
		repo := &memoryDoctorRepository{doctors: []models.Doctor{doctor}}
		redis := newMemoryRedis()
		uc := newDoctorUsecaseForTest(repo, &memoryAppointmentRepository{}, redis)

		doctors, err := uc.ListPublic(context.Background())
		require.NoError(t, err)
		require.Len(t, doctors, 1)
		assert.Equal(t, 1, repo.findCalls)
		assert.Equal(t, 1, redis.sets)
	})

	t.Run("warm cache skips the repository", func(t *testing.T) {
		repo := &memoryDoctorRepository{doctors: []models.Doctor{doctor}}
		redis := newMemoryRedis()
		uc := newDoctorUsecaseForTest(repo, &memoryAppointmentRepository{}, redis)

		_, err := uc.ListPublic(context.Background())
		require.NoError(t, err)

		doctors, err := uc.ListPublic(context.Background())
		require.NoError(t, err)
		require.Len(t, doctors, 1)
		assert.Equal(t, "doc1", doctors[0].ID)
		assert.Equal(t, 1, repo.findCalls)
	})

	t.Run("availability change invalidates the cache", func(t *testing.T) {
		repo := &memoryDoctorRepository{doctors: []models.Doctor{doctor}}
		redis := newMemoryRedis()
		uc := newDoctorUsecaseForTest(repo, &memoryAppointmentRepository{}, redis)

		_, err := uc.ListPublic(context.Background())
		require.NoError(t, err)

		_, err = uc.ChangeAvailability(context.Background(), "doc1")
		require.NoError(t, err)

		_, err = uc.ListPublic(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, repo.findCalls)
	})
}

func TestCompleteAppointment(t *testing.T) {
	appointments := func() *memoryAppointmentRepository {
		return &memoryAppointmentRepository{appointments: []models.Appointment{
			{ID: "appt1", DoctorID: "doc1", Status: models.AppointmentConfirmed},
		}}
	}

	t.Run("owning doctor marks completion", func(t *testing.T) {
		repo := appointments()
		uc := newDoctorUsecaseForTest(&memoryDoctorRepository{}, repo, newMemoryRedis())

		require.NoError(t, uc.CompleteAppointment(context.Background(), "doc1", "appt1"))
		assert.Equal(t, []string{"appt1"}, repo.completed)
	})

	t.Run("other doctor is rejected", func(t *testing.T) {
		repo := appointments()
		uc := newDoctorUsecaseForTest(&memoryDoctorRepository{}, repo, newMemoryRedis())

		err := uc.CompleteAppointment(context.Background(), "doc2", "appt1")
		require.Error(t, err)
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusUnauthorized, customErr.StatusCode)
		assert.Empty(t, repo.completed)
	})

	t.Run("unknown appointment is not found", func(t *testing.T) {
		uc := newDoctorUsecaseForTest(&memoryDoctorRepository{}, appointments(), newMemoryRedis())

		err := uc.CompleteAppointment(context.Background(), "doc1", "missing")
		require.Error(t, err)
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})
}

func TestDoctorDashboard(t *testing.T) {
	repo := &memoryAppointmentRepository{appointments: []models.Appointment{
		{ID: "a1", DoctorID: "doc1", PatientID: "p1", Amount: 500, Status: models.AppointmentConfirmed},
		{ID: "a2", DoctorID: "doc1", PatientID: "p2", Amount: 500, Status: models.AppointmentConfirmed},
		{ID: "a3", DoctorID: "doc1", PatientID: "p1", Amount: 500, Status: models.AppointmentPending},
		{ID: "a4", DoctorID: "doc1", PatientID: "p3", Amount: 500, Status: models.AppointmentCancelled},
		{ID: "a5", DoctorID: "doc2", PatientID: "p9", Amount: 900, Status: models.AppointmentConfirmed},
	}}
	uc := newDoctorUsecaseForTest(&memoryDoctorRepository{}, repo, newMemoryRedis())

	dashboard, err := uc.Dashboard(context.Background(), "doc1")
	require.NoError(t, err)

	assert.Equal(t, int64(1000), dashboard.Earnings, "only confirmed appointments count toward earnings")
	assert.Equal(t, 4, dashboard.Appointments)
	assert.Equal(t, 3, dashboard.Patients)
	assert.Len(t, dashboard.LatestAppointments, 4)
}

package patients

import (
	"context"
	"fmt"
	"testing"
	"time"

	"mediq-service/internal/app/config"
	"mediq-service/internal/app/models"
	"mediq-service/internal/app/services/shared/jwtmanager"
	"mediq-service/internal/pkg/constvars"
	"mediq-service/internal/pkg/dto/requests"
	"mediq-service/internal/pkg/exceptions"
	"mediq-service/internal/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryPatientRepository struct {
	patients []models.Patient
	nextID   int
}

func (m *memoryPatientRepository) CreatePatient(ctx context.Context, patient *models.Patient) (string, error) {
	m.nextID++
	patient.ID = fmt.Sprintf("pat%d", m.nextID)
	m.patients = append(m.patients, *patient)
	return patient.ID, nil
}

func (m *memoryPatientRepository) FindByID(ctx context.Context, patientID string) (*models.Patient, error) {
	for _, patient := range m.patients {
		if patient.ID == patientID {
			copied := patient
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memoryPatientRepository) FindByEmail(ctx context.Context, email string) (*models.Patient, error) {
	for _, patient := range m.patients {
		if patient.Email == email {
			copied := patient
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memoryPatientRepository) UpdateProfile(ctx context.Context, patient *models.Patient) error {
	for i := range m.patients {
		if m.patients[i].ID == patient.ID {
			m.patients[i] = *patient
			return nil
		}
	}
	return nil
}

func (m *memoryPatientRepository) CountPatients(ctx context.Context) (int64, error) {
	return int64(len(m.patients)), nil
}

func newPatientUsecaseForTest(repo *memoryPatientRepository) (*patientUsecase, *jwtmanager.JWTManager) {
	cfg := &config.InternalConfig{
		JWT: config.AppJWT{Secret: "secret-for-tests", ExpTimeInHour: 1},
	}
	jwtManager := jwtmanager.NewJWTManager(cfg)
	uc := &patientUsecase{
		PatientRepository: repo,
		JWTManager:        jwtManager,
		Log:               zap.NewNop(),
	}
	return uc, jwtManager
}

func TestPatientRegister(t *testing.T) {
	registerRequest := func() *requests.RegisterPatient {
		return &requests.RegisterPatient{
			Name:     "John Doe",
			Email:    "john@example.test",
			Password: "Str0ng!Pass",
		}
	}

	t.Run("register stores a hash and returns a patient token", func(t *testing.T) {
		repo := &memoryPatientRepository{}
		uc, jwtManager := newPatientUsecaseForTest(repo)

		token, err := uc.Register(context.Background(), registerRequest())
		require.NoError(t, err)
		require.NotEmpty(t, token.Token)

		actorID, role, err := jwtManager.VerifyToken(token.Token)
		require.NoError(t, err)
		assert.Equal(t, "pat1", actorID)
		assert.Equal(t, constvars.ActorRolePatient, role)

		require.Len(t, repo.patients, 1)
		stored := repo.patients[0]
		assert.NotEqual(t, "Str0ng!Pass", stored.Password)
		assert.True(t, utils.CheckPasswordHash("Str0ng!Pass", stored.Password))
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		repo := &memoryPatientRepository{}
		uc, _ := newPatientUsecaseForTest(repo)

		_, err := uc.Register(context.Background(), registerRequest())
		require.NoError(t, err)

		_, err = uc.Register(context.Background(), registerRequest())
		require.Error(t, err)
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)
		assert.Len(t, repo.patients, 1)
	})

	t.Run("weak password is rejected before any write", func(t *testing.T) {
		repo := &memoryPatientRepository{}
		uc, _ := newPatientUsecaseForTest(repo)

		request := registerRequest()
		request.Password = "short"
		_, err := uc.Register(context.Background(), request)
		require.Error(t, err)
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusUnprocessableEntity, customErr.StatusCode)
		assert.Empty(t, repo.patients)
	})
}

func TestPatientLogin(t *testing.T) {
	seedPatient := func(t *testing.T, repo *memoryPatientRepository) {
		t.Helper()
		hashed, err := utils.HashPassword("Str0ng!Pass")
		require.NoError(t, err)
		_, err = repo.CreatePatient(context.Background(), &models.Patient{
			Name:      "John Doe",
			Email:     "john@example.test",
			Password:  hashed,
			TimeModel: models.TimeModel{CreatedAt: time.Now()},
		})
		require.NoError(t, err)
	}

	t.Run("valid credentials return a token", func(t *testing.T) {
		repo := &memoryPatientRepository{}
		seedPatient(t, repo)
		uc, jwtManager := newPatientUsecaseForTest(repo)

		token, err := uc.Login(context.Background(), &requests.Login{
			Email:    "john@example.test",
			Password: "Str0ng!Pass",
		})
		require.NoError(t, err)

		actorID, role, err := jwtManager.VerifyToken(token.Token)
		require.NoError(t, err)
		assert.Equal(t, "pat1", actorID)
		assert.Equal(t, constvars.ActorRolePatient, role)
	})

	t.Run("wrong password and unknown email fail the same way", func(t *testing.T) {
		repo := &memoryPatientRepository{}
		seedPatient(t, repo)
		uc, _ := newPatientUsecaseForTest(repo)

		for _, login := range []*requests.Login{
			{Email: "john@example.test", Password: "WrongPass1!"},
			{Email: "nobody@example.test", Password: "Str0ng!Pass"},
		} {
			_, err := uc.Login(context.Background(), login)
			require.Error(t, err)
			var customErr *exceptions.CustomError
			require.ErrorAs(t, err, &customErr)
			assert.Equal(t, constvars.StatusUnauthorized, customErr.StatusCode)
		}
	})
}

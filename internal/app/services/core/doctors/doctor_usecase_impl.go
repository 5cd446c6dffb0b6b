package doctors

import (
	"context"
	"sync"
	"time"

	"mediq-service/internal/app/contracts"
	"mediq-service/internal/app/models"
	"mediq-service/internal/app/services/shared/jwtmanager"
	"mediq-service/internal/pkg/constvars"
	"mediq-service/internal/pkg/dto/requests"
	"mediq-service/internal/pkg/dto/responses"
	"mediq-service/internal/pkg/exceptions"
	"mediq-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type doctorUsecase struct {
	DoctorRepository      contracts.DoctorRepository
	AppointmentRepository contracts.AppointmentRepository
	RedisRepository       contracts.RedisRepository
	JWTManager            *jwtmanager.JWTManager
	Log                   *zap.Logger
}

var (
	doctorUsecaseInstance contracts.DoctorUsecase
	onceDoctorUsecase     sync.Once
)

func NewDoctorUsecase(
	doctorRepository contracts.DoctorRepository,
	appointmentRepository contracts.AppointmentRepository,
	redisRepository contracts.RedisRepository,
	jwtManager *jwtmanager.JWTManager,
	logger *zap.Logger,
) contracts.DoctorUsecase {
	onceDoctorUsecase.Do(func() {
		instance := &doctorUsecase{
			DoctorRepository:      doctorRepository,
			AppointmentRepository: appointmentRepository,
			RedisRepository:       redisRepository,
			JWTManager:            jwtManager,
			Log:                   logger,
		}
		doctorUsecaseInstance = instance
	})
	return doctorUsecaseInstance
}

func (uc *doctorUsecase) Login(ctx context.Context, request *requests.Login) (*responses.Token, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("doctorUsecase.Login called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	doctor, err := uc.DoctorRepository.FindByEmail(ctx, request.Email)
	if err != nil {
		return nil, err
	}
	if doctor == nil || !utils.CheckPasswordHash(request.Password, doctor.Password) {
		return nil, exceptions.ErrInvalidUsernameOrPassword(nil)
	}

	token, err := uc.JWTManager.CreateToken(doctor.ID, constvars.ActorRoleDoctor)
	if err != nil {
		return nil, err
	}
	return &responses.Token{Token: token}, nil
}

// ListPublic serves the storefront doctor list through a short-lived redis
// cache. The cached copy never contains password hashes; FindAll projects
// them out before anything reaches the cache.
func (uc *doctorUsecase) ListPublic(ctx context.Context) ([]models.Doctor, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("doctorUsecase.ListPublic called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	cached, err := uc.RedisRepository.Get(ctx, constvars.RedisKeyDoctorList)
	if err != nil {
		uc.Log.Warn("doctorUsecase.ListPublic cache lookup failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, constvars.RedisKeyDoctorList),
			zap.Error(err),
		)
	} else if cached != "" {
		var doctors []models.Doctor
		if err := json.Unmarshal([]byte(cached), &doctors); err == nil {
			return doctors, nil
		}
	}

	doctors, err := uc.DoctorRepository.FindAll(ctx)
	if err != nil {
		uc.Log.Error("doctorUsecase.ListPublic error fetching doctors",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	cacheTTL := time.Duration(constvars.RedisDoctorListCacheTTL) * time.Second
	if err := uc.RedisRepository.Set(ctx, constvars.RedisKeyDoctorList, doctors, cacheTTL); err != nil {
		uc.Log.Warn("doctorUsecase.ListPublic cache store failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, constvars.RedisKeyDoctorList),
			zap.Error(err),
		)
	}
	return doctors, nil
}

func (uc *doctorUsecase) Profile(ctx context.Context, doctorID string) (*models.Doctor, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("doctorUsecase.Profile called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)

	doctor, err := uc.DoctorRepository.FindByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, exceptions.ErrDoctorNotFound(nil)
	}
	return doctor, nil
}

func (uc *doctorUsecase) UpdateProfile(ctx context.Context, doctorID string, request *requests.UpdateDoctorProfile) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("doctorUsecase.UpdateProfile called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)

	err := uc.DoctorRepository.UpdateProfile(ctx, doctorID, contracts.DoctorProfilePatch{
		Fees:      request.Fees,
		About:     request.About,
		Address:   models.Address{Line1: request.Line1, Line2: request.Line2},
		Available: request.Available,
	})
	if err != nil {
		uc.Log.Error("doctorUsecase.UpdateProfile error updating doctor",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}
	uc.invalidateDoctorList(ctx, requestID)
	return nil
}

func (uc *doctorUsecase) ChangeAvailability(ctx context.Context, doctorID string) (*models.Doctor, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("doctorUsecase.ChangeAvailability called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)

	doctor, err := uc.DoctorRepository.ToggleAvailability(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, exceptions.ErrDoctorNotFound(nil)
	}
	uc.invalidateDoctorList(ctx, requestID)
	return doctor, nil
}

func (uc *doctorUsecase) Appointments(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("doctorUsecase.Appointments called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)
	return uc.AppointmentRepository.FindByDoctor(ctx, doctorID)
}

// CompleteAppointment flips the doctor-owned completion flag. It is separate
// from the payment status machine: a confirmed appointment stays confirmed.
func (uc *doctorUsecase) CompleteAppointment(ctx context.Context, doctorID, appointmentID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("doctorUsecase.CompleteAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	appointment, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appointment == nil {
		return exceptions.ErrAppointmentNotFound(nil)
	}
	if appointment.DoctorID != doctorID {
		return exceptions.ErrNotAppointmentOwner(nil)
	}

	completed := true
	_, err = uc.AppointmentRepository.UpdateIf(ctx, appointmentID,
		contracts.AppointmentPredicate{},
		contracts.AppointmentPatch{IsCompleted: &completed},
	)
	if err != nil {
		uc.Log.Error("doctorUsecase.CompleteAppointment error updating appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (uc *doctorUsecase) Dashboard(ctx context.Context, doctorID string) (*responses.DoctorDashboard, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("doctorUsecase.Dashboard called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)

	appointments, err := uc.AppointmentRepository.FindByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	var earnings int64
	patientSet := make(map[string]struct{})
	for _, appointment := range appointments {
		if appointment.Status == models.AppointmentConfirmed {
			earnings += appointment.Amount
		}
		patientSet[appointment.PatientID] = struct{}{}
	}

	latest := appointments
	if len(latest) > 5 {
		latest = latest[:5]
	}

	return &responses.DoctorDashboard{
		Earnings:           earnings,
		Appointments:       len(appointments),
		Patients:           len(patientSet),
		LatestAppointments: latest,
	}, nil
}

func (uc *doctorUsecase) invalidateDoctorList(ctx context.Context, requestID string) {
	if err := uc.RedisRepository.Delete(ctx, constvars.RedisKeyDoctorList); err != nil {
		uc.Log.Warn("doctorUsecase failed to invalidate doctor list cache",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, constvars.RedisKeyDoctorList),
			zap.Error(err),
		)
	}
}

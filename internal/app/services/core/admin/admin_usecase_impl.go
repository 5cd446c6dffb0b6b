package admin

import (
	"context"
	"sync"

	"mediq-service/internal/app/config"
	"mediq-service/internal/app/contracts"
	"mediq-service/internal/app/models"
	"mediq-service/internal/app/services/shared/jwtmanager"
	"mediq-service/internal/pkg/constvars"
	"mediq-service/internal/pkg/dto/requests"
	"mediq-service/internal/pkg/dto/responses"
	"mediq-service/internal/pkg/exceptions"
	"mediq-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type adminUsecase struct {
	DoctorRepository      contracts.DoctorRepository
	PatientRepository     contracts.PatientRepository
	AppointmentRepository contracts.AppointmentRepository
	StorageService        contracts.StorageService
	RedisRepository       contracts.RedisRepository
	JWTManager            *jwtmanager.JWTManager
	InternalConfig        *config.InternalConfig
	Log                   *zap.Logger
}

var (
	adminUsecaseInstance contracts.AdminUsecase
	onceAdminUsecase     sync.Once
)

func NewAdminUsecase(
	doctorRepository contracts.DoctorRepository,
	patientRepository contracts.PatientRepository,
	appointmentRepository contracts.AppointmentRepository,
	storageService contracts.StorageService,
	redisRepository contracts.RedisRepository,
	jwtManager *jwtmanager.JWTManager,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.AdminUsecase {
	onceAdminUsecase.Do(func() {
		instance := &adminUsecase{
			DoctorRepository:      doctorRepository,
			PatientRepository:     patientRepository,
			AppointmentRepository: appointmentRepository,
			StorageService:        storageService,
			RedisRepository:       redisRepository,
			JWTManager:            jwtManager,
			InternalConfig:        internalConfig,
			Log:                   logger,
		}
		adminUsecaseInstance = instance
	})
	return adminUsecaseInstance
}

func (uc *adminUsecase) Login(ctx context.Context, request *requests.AdminLogin) (*responses.Token, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("adminUsecase.Login called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	if request.Email != uc.InternalConfig.Admin.Email || request.Password != uc.InternalConfig.Admin.Password {
		return nil, exceptions.ErrInvalidUsernameOrPassword(nil)
	}

	token, err := uc.JWTManager.CreateToken(uc.InternalConfig.Admin.Email, constvars.ActorRoleAdmin)
	if err != nil {
		return nil, err
	}
	return &responses.Token{Token: token}, nil
}

func (uc *adminUsecase) AddDoctor(ctx context.Context, request *requests.AddDoctor) (*models.Doctor, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("adminUsecase.AddDoctor called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	existing, err := uc.DoctorRepository.FindByEmail(ctx, request.Email)
	if err != nil {
		uc.Log.Error("adminUsecase.AddDoctor error checking email",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if existing != nil {
		return nil, exceptions.ErrEmailAlreadyExist(nil)
	}

	if !utils.IsStrongPassword(request.Password) {
		return nil, exceptions.ErrWeakPassword(nil)
	}
	hashed, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, exceptions.ErrHashPassword(err)
	}

	var imageURL string
	if request.ImageID != "" {
		imageURL, err = uc.StorageService.PresignedURL(ctx, request.ImageID)
		if err != nil {
			uc.Log.Error("adminUsecase.AddDoctor error presigning image",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, err
		}
	}

	doctor := &models.Doctor{
		Name:       request.Name,
		Email:      request.Email,
		Password:   hashed,
		Image:      imageURL,
		Speciality: request.Speciality,
		Degree:     request.Degree,
		Experience: request.Experience,
		About:      request.About,
		Available:  true,
		Fees:       request.Fees,
		Address:    models.Address{Line1: request.Line1, Line2: request.Line2},
	}
	doctorID, err := uc.DoctorRepository.CreateDoctor(ctx, doctor)
	if err != nil {
		uc.Log.Error("adminUsecase.AddDoctor error creating doctor",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	doctor.ID = doctorID
	doctor.Password = ""

	if err := uc.RedisRepository.Delete(ctx, constvars.RedisKeyDoctorList); err != nil {
		uc.Log.Warn("adminUsecase.AddDoctor failed to invalidate doctor list cache",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, constvars.RedisKeyDoctorList),
			zap.Error(err),
		)
	}

	uc.Log.Info("adminUsecase.AddDoctor finished",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)
	return doctor, nil
}

func (uc *adminUsecase) AllDoctors(ctx context.Context) ([]models.Doctor, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("adminUsecase.AllDoctors called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return uc.DoctorRepository.FindAll(ctx)
}

func (uc *adminUsecase) AllAppointments(ctx context.Context) ([]models.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("adminUsecase.AllAppointments called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return uc.AppointmentRepository.FindAll(ctx)
}

func (uc *adminUsecase) Dashboard(ctx context.Context) (*responses.AdminDashboard, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("adminUsecase.Dashboard called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	doctors, err := uc.DoctorRepository.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	appointments, err := uc.AppointmentRepository.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	patientCount, err := uc.PatientRepository.CountPatients(ctx)
	if err != nil {
		return nil, err
	}

	latest := appointments
	if len(latest) > 5 {
		latest = latest[:5]
	}

	return &responses.AdminDashboard{
		Doctors:            len(doctors),
		Appointments:       len(appointments),
		Patients:           int(patientCount),
		LatestAppointments: latest,
	}, nil
}

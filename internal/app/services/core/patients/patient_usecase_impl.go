package patients

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

	"go.uber.org/zap"
)

type patientUsecase struct {
	PatientRepository     contracts.PatientRepository
	AppointmentRepository contracts.AppointmentRepository
	StorageService        contracts.StorageService
	JWTManager            *jwtmanager.JWTManager
	Log                   *zap.Logger
}

var (
	patientUsecaseInstance contracts.PatientUsecase
	oncePatientUsecase     sync.Once
)

func NewPatientUsecase(
	patientRepository contracts.PatientRepository,
	appointmentRepository contracts.AppointmentRepository,
	storageService contracts.StorageService,
	jwtManager *jwtmanager.JWTManager,
	logger *zap.Logger,
) contracts.PatientUsecase {
	oncePatientUsecase.Do(func() {
		instance := &patientUsecase{
			PatientRepository:     patientRepository,
			AppointmentRepository: appointmentRepository,
			StorageService:        storageService,
			JWTManager:            jwtManager,
			Log:                   logger,
		}
		patientUsecaseInstance = instance
	})
	return patientUsecaseInstance
}

func (uc *patientUsecase) Register(ctx context.Context, request *requests.RegisterPatient) (*responses.Token, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("patientUsecase.Register called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	existing, err := uc.PatientRepository.FindByEmail(ctx, request.Email)
	if err != nil {
		uc.Log.Error("patientUsecase.Register error checking email",
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

	patientID, err := uc.PatientRepository.CreatePatient(ctx, &models.Patient{
		Name:     request.Name,
		Email:    request.Email,
		Password: hashed,
	})
	if err != nil {
		uc.Log.Error("patientUsecase.Register error creating patient",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	token, err := uc.JWTManager.CreateToken(patientID, constvars.ActorRolePatient)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("patientUsecase.Register finished",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)
	return &responses.Token{Token: token}, nil
}

func (uc *patientUsecase) Login(ctx context.Context, request *requests.Login) (*responses.Token, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("patientUsecase.Login called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	patient, err := uc.PatientRepository.FindByEmail(ctx, request.Email)
	if err != nil {
		return nil, err
	}
	if patient == nil || !utils.CheckPasswordHash(request.Password, patient.Password) {
		return nil, exceptions.ErrInvalidUsernameOrPassword(nil)
	}

	token, err := uc.JWTManager.CreateToken(patient.ID, constvars.ActorRolePatient)
	if err != nil {
		return nil, err
	}
	return &responses.Token{Token: token}, nil
}

func (uc *patientUsecase) Profile(ctx context.Context, patientID string) (*models.Patient, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("patientUsecase.Profile called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	patient, err := uc.PatientRepository.FindByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, exceptions.ErrPatientNotFound(nil)
	}
	return patient, nil
}

func (uc *patientUsecase) UpdateProfile(ctx context.Context, patientID string, request *requests.UpdatePatientProfile) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("patientUsecase.UpdateProfile called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	patient, err := uc.PatientRepository.FindByID(ctx, patientID)
	if err != nil {
		return err
	}
	if patient == nil {
		return exceptions.ErrPatientNotFound(nil)
	}

	patient.Name = request.Name
	patient.Phone = request.Phone
	patient.Address = models.Address{Line1: request.Line1, Line2: request.Line2}
	patient.Dob = request.Dob
	patient.Gender = request.Gender
	patient.UpdatedAt = time.Now()

	if request.ImageID != "" {
		imageURL, presignErr := uc.StorageService.PresignedURL(ctx, request.ImageID)
		if presignErr != nil {
			uc.Log.Error("patientUsecase.UpdateProfile error presigning image",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(presignErr),
			)
			return presignErr
		}
		patient.Image = imageURL
	}

	if err := uc.PatientRepository.UpdateProfile(ctx, patient); err != nil {
		uc.Log.Error("patientUsecase.UpdateProfile error updating patient",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (uc *patientUsecase) Appointments(ctx context.Context, patientID string) ([]models.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("patientUsecase.Appointments called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)
	return uc.AppointmentRepository.FindByPatient(ctx, patientID)
}

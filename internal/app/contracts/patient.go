package contracts

import (
	"context"

	"mediq-service/internal/app/models"
	"mediq-service/internal/pkg/dto/requests"
	"mediq-service/internal/pkg/dto/responses"
)

type PatientRepository interface {
	CreatePatient(ctx context.Context, patient *models.Patient) (patientID string, err error)
	FindByID(ctx context.Context, patientID string) (*models.Patient, error)
	FindByEmail(ctx context.Context, email string) (*models.Patient, error)
	UpdateProfile(ctx context.Context, patient *models.Patient) error
	CountPatients(ctx context.Context) (int64, error)
}

type PatientUsecase interface {
	Register(ctx context.Context, request *requests.RegisterPatient) (*responses.Token, error)
	Login(ctx context.Context, request *requests.Login) (*responses.Token, error)
	Profile(ctx context.Context, patientID string) (*models.Patient, error)
	UpdateProfile(ctx context.Context, patientID string, request *requests.UpdatePatientProfile) error
	Appointments(ctx context.Context, patientID string) ([]models.Appointment, error)
}

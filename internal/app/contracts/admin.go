package contracts

import (
	"context"

	"mediq-service/internal/app/models"
	"mediq-service/internal/pkg/dto/requests"
	"mediq-service/internal/pkg/dto/responses"
)

type AdminUsecase interface {
	Login(ctx context.Context, request *requests.AdminLogin) (*responses.Token, error)
	AddDoctor(ctx context.Context, request *requests.AddDoctor) (*models.Doctor, error)
	AllDoctors(ctx context.Context) ([]models.Doctor, error)
	AllAppointments(ctx context.Context) ([]models.Appointment, error)
	Dashboard(ctx context.Context) (*responses.AdminDashboard, error)
}

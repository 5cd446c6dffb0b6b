package responses

import "mediq-service/internal/app/models"

type DoctorDashboard struct {
	Earnings           int64                `json:"earnings"`
	Appointments       int                  `json:"appointments"`
	Patients           int                  `json:"patients"`
	LatestAppointments []models.Appointment `json:"latestAppointments"`
}

type AdminDashboard struct {
	Doctors            int                  `json:"doctors"`
	Appointments       int                  `json:"appointments"`
	Patients           int                  `json:"patients"`
	LatestAppointments []models.Appointment `json:"latestAppointments"`
}

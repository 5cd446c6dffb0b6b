package contracts

import "context"

const (
	NotificationAppointmentBooked    = "appointment.booked"
	NotificationAppointmentConfirmed = "appointment.confirmed"
	NotificationAppointmentCancelled = "appointment.cancelled"
	NotificationAppointmentRefunded  = "appointment.refunded"
)

type AppointmentNotification struct {
	Kind          string `json:"kind"`
	AppointmentID string `json:"appointment_id"`
	PatientEmail  string `json:"patient_email"`
	PatientName   string `json:"patient_name"`
	DoctorName    string `json:"doctor_name"`
	SlotDate      string `json:"slot_date"`
	SlotTime      string `json:"slot_time"`
	Amount        int64  `json:"amount"`
	RefundID      string `json:"refund_id,omitempty"`
}

// NotifierService queues appointment lifecycle notifications. Publishing is
// fire-and-forget from the workflows' point of view; delivery failures must
// never fail a booking or a cancellation.
type NotifierService interface {
	PublishAppointmentEvent(ctx context.Context, notification *AppointmentNotification) error
}

package constvars

const (
	ResponseSuccess = "Success"

	PatientRegisteredSuccessMessage     = "Patient registered successfully"
	LoginSuccessMessage                 = "Logged in"
	ProfileFetchedSuccessMessage        = "Profile fetched"
	ProfileUpdatedSuccessMessage        = "Profile updated"
	DoctorsFetchedSuccessMessage        = "Doctors fetched"
	DoctorRegisteredSuccessMessage      = "Doctor registered successfully"
	AvailabilityChangedSuccessMessage   = "Availability changed"
	AppointmentsFetchedSuccessMessage   = "Appointments fetched"
	AppointmentBookedSuccessMessage     = "Proceed to payment"
	AppointmentCancelledSuccessMessage  = "Appointment cancelled"
	AppointmentRefundedSuccessMessage   = "Appointment cancelled and refunded"
	AppointmentCompletedSuccessMessage  = "Appointment completed"
	DashboardFetchedSuccessMessage      = "Dashboard data fetched"
	PaymentEventProcessedSuccessMessage = "Payment event processed"
)

package responses

type BookSlot struct {
	AppointmentID string `json:"appointmentId"`
	CheckoutURL   string `json:"checkoutUrl"`
}

type CancelAppointment struct {
	RefundID string `json:"refundId,omitempty"`
}

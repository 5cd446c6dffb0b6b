package models

import "time"

type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// SnapshotVersion marks the layout of the doctor/patient snapshots embedded
// in an appointment, so historical records stay readable after the live
// Doctor/Patient schema evolves.
const SnapshotVersion = 1

type DoctorSnapshot struct {
	Version    int     `json:"version" bson:"version"`
	Name       string  `json:"name" bson:"name"`
	Image      string  `json:"image" bson:"image"`
	Speciality string  `json:"speciality" bson:"speciality"`
	Degree     string  `json:"degree" bson:"degree"`
	Fees       int64   `json:"fees" bson:"fees"`
	Address    Address `json:"address" bson:"address"`
}

type PatientSnapshot struct {
	Version int    `json:"version" bson:"version"`
	Name    string `json:"name" bson:"name"`
	Email   string `json:"email" bson:"email"`
	Image   string `json:"image,omitempty" bson:"image,omitempty"`
	Phone   string `json:"phone,omitempty" bson:"phone,omitempty"`
	Dob     string `json:"dob,omitempty" bson:"dob,omitempty"`
	Gender  string `json:"gender,omitempty" bson:"gender,omitempty"`
}

// Appointment is the durable record of one booking attempt. Records are never
// deleted; a cancelled appointment keeps its snapshots and payment trail.
// While Status is pending or confirmed, (DoctorID, SlotDate, SlotTime) has a
// matching entry in the doctor's SlotsBooked; that entry is removed exactly
// when Status flips to cancelled.
type Appointment struct {
	ID          string            `json:"id" bson:"_id,omitempty"`
	PatientID   string            `json:"patientId" bson:"patientId"`
	DoctorID    string            `json:"doctorId" bson:"doctorId"`
	SlotDate    string            `json:"slotDate" bson:"slotDate"`
	SlotTime    string            `json:"slotTime" bson:"slotTime"`
	Amount      int64             `json:"amount" bson:"amount"`
	Status      AppointmentStatus `json:"status" bson:"status"`
	DoctorData  DoctorSnapshot    `json:"docData" bson:"docData"`
	PatientData PatientSnapshot   `json:"userData" bson:"userData"`

	// CheckoutSessionID identifies the checkout attempt; PaymentIntentID is
	// the capture reference, set only once money was actually taken.
	CheckoutSessionID string     `json:"checkoutSessionId,omitempty" bson:"checkoutSessionId,omitempty"`
	PaymentIntentID   string     `json:"paymentIntentId,omitempty" bson:"paymentIntentId,omitempty"`
	PaidAt            *time.Time `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	RefundID          string     `json:"refundId,omitempty" bson:"refundId,omitempty"`
	RefundedAt        *time.Time `json:"refundedAt,omitempty" bson:"refundedAt,omitempty"`

	// IsCompleted is doctor-set and independent of the payment status machine.
	IsCompleted bool `json:"isCompleted" bson:"isCompleted"`

	TimeModel `bson:",inline"`
}

package models

import "time"

type TimeModel struct {
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Address struct {
	Line1 string `json:"line1" bson:"line1"`
	Line2 string `json:"line2,omitempty" bson:"line2,omitempty"`
}

// Doctor carries the slot ledger: SlotsBooked maps a date key such as
// "5_6_2025" to the set of time keys already reserved for that day. The pair
// appears at most once; reservation and release go through DoctorRepository
// only, never through profile updates.
type Doctor struct {
	ID          string              `json:"id" bson:"_id,omitempty"`
	Name        string              `json:"name" bson:"name"`
	Email       string              `json:"email" bson:"email"`
	Password    string              `json:"-" bson:"password"`
	Image       string              `json:"image" bson:"image"`
	Speciality  string              `json:"speciality" bson:"speciality"`
	Degree      string              `json:"degree" bson:"degree"`
	Experience  string              `json:"experience" bson:"experience"`
	About       string              `json:"about" bson:"about"`
	Available   bool                `json:"available" bson:"available"`
	Fees        int64               `json:"fees" bson:"fees"`
	Address     Address             `json:"address" bson:"address"`
	SlotsBooked map[string][]string `json:"slots_booked" bson:"slots_booked"`
	TimeModel   `bson:",inline"`
}

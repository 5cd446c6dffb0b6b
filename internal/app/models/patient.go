package models

type Patient struct {
	ID        string  `json:"id" bson:"_id,omitempty"`
	Name      string  `json:"name" bson:"name"`
	Email     string  `json:"email" bson:"email"`
	Password  string  `json:"-" bson:"password"`
	Image     string  `json:"image,omitempty" bson:"image,omitempty"`
	Phone     string  `json:"phone,omitempty" bson:"phone,omitempty"`
	Address   Address `json:"address" bson:"address"`
	Dob       string  `json:"dob,omitempty" bson:"dob,omitempty"`
	Gender    string  `json:"gender,omitempty" bson:"gender,omitempty"`
	TimeModel `bson:",inline"`
}

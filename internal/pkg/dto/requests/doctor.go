package requests

type AddDoctor struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Speciality string `json:"speciality" validate:"required"`
	Degree     string `json:"degree" validate:"required"`
	Experience string `json:"experience" validate:"required"`
	About      string `json:"about" validate:"required"`
	Fees       int64  `json:"fees" validate:"required,gt=0"`
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2"`
	ImageID    string `json:"-"`
}

type UpdateDoctorProfile struct {
	Fees      int64  `json:"fees" validate:"required,gt=0"`
	About     string `json:"about" validate:"required"`
	Line1     string `json:"line1" validate:"required"`
	Line2     string `json:"line2"`
	Available bool   `json:"available"`
}

type ChangeAvailability struct {
	DoctorID string `json:"docId" validate:"required"`
}

package requests

type UpdatePatientProfile struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Phone   string `json:"phone" validate:"required"`
	Line1   string `json:"line1" validate:"required"`
	Line2   string `json:"line2"`
	Dob     string `json:"dob" validate:"required"`
	Gender  string `json:"gender" validate:"required,oneof=male female other"`
	ImageID string `json:"-"`
}

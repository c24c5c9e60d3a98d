package dto

type PatientProfileResponse struct {
	UserID      uint   `json:"user_id"`
	FullName    string `json:"full_name,omitempty"`
	Email       string `json:"email,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Address     string `json:"address,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type UpdatePatientProfileRequest struct {
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Address     string `json:"address" validate:"omitempty,max=500"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=20"`
}

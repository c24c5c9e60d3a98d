package dto

import "github.com/shopspring/decimal"

type DoctorProfileResponse struct {
	UserID          uint            `json:"user_id"`
	FullName        string          `json:"full_name,omitempty"`
	Email           string          `json:"email,omitempty"`
	Specialization  string          `json:"specialization"`
	Biography       string          `json:"biography,omitempty"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
}

type UpdateDoctorProfileRequest struct {
	Specialization  string `json:"specialization" validate:"omitempty,max=100"`
	Biography       string `json:"biography" validate:"omitempty,max=2000"`
	ConsultationFee string `json:"consultation_fee" validate:"omitempty,numeric"`
}

type DoctorListResponse struct {
	Doctors []DoctorProfileResponse `json:"doctors"`
	Total   int                     `json:"total"`
}

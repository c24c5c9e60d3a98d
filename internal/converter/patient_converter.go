package converter

import (
	"clinic-booking-api/internal/delivery/dto"
	"clinic-booking-api/internal/domain/entity"
)

func PatientProfileToResponse(profile *entity.PatientProfile) *dto.PatientProfileResponse {
	resp := &dto.PatientProfileResponse{
		UserID:      profile.UserID,
		Address:     profile.Address,
		PhoneNumber: profile.PhoneNumber,
	}
	if profile.DateOfBirth != nil {
		resp.DateOfBirth = profile.DateOfBirth.Format("2006-01-02")
	}
	if profile.User.ID != 0 {
		resp.FullName = profile.User.FullName
		resp.Email = profile.User.Email
	}
	return resp
}

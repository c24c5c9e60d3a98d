package converter

import (
	"clinic-booking-api/internal/delivery/dto"
	"clinic-booking-api/internal/domain/entity"
	"clinic-booking-api/pkg/slot"
)

// AppointmentToResponse maps an appointment entity to its response form.
// The slot id is re-derived from the stored hour and reported in the
// frontend naming convention.
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	resp := &dto.AppointmentResponse{
		ID:        appointment.ID,
		DoctorID:  appointment.DoctorID,
		PatientID: appointment.PatientID,
		Date:      appointment.StartsAt.UTC().Format("2006-01-02"),
		StartsAt:  appointment.StartsAt,
		Status:    string(appointment.Status),
		Notes:     appointment.Notes,
		CreatedAt: appointment.CreatedAt,
	}

	if id, ok := slot.FromHour(appointment.StartsAt.UTC().Hour()); ok {
		resp.SlotID = slot.Denormalize(id)
		resp.SlotLabel = slot.Label(id)
	}

	if appointment.Doctor.ID != 0 {
		resp.DoctorName = appointment.Doctor.FullName
	}
	if appointment.Patient.ID != 0 {
		resp.PatientName = appointment.Patient.FullName
	}

	return resp
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

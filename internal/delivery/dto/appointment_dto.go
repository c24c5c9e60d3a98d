package dto

import "time"

// Slot statuses reported by the availability resolver. Every slot of the
// fixed eleven-block day carries exactly one of these.
const (
	SlotStatusAvailable   = "available"
	SlotStatusReserved    = "reserved"
	SlotStatusUnavailable = "unavailable"
)

// Booking rejection reasons. Business-rule rejections come back in a tagged
// BookingResult, not as errors.
const (
	BookingReasonSlotUnknown       = "slot_unknown"
	BookingReasonSlotNotConfigured = "slot_not_configured"
	BookingReasonSlotReserved      = "slot_reserved"
	BookingReasonSlotClosed        = "slot_closed"
)

type SlotInfo struct {
	Status      string `json:"status"`
	Label       string `json:"label"`
	Configured  bool   `json:"configured"`
	PatientID   uint   `json:"patient_id,omitempty"`
	PatientName string `json:"patient_name,omitempty"`
}

// AvailabilityResponse reports the per-slot state of one doctor's day.
// Slot keys use the frontend naming convention.
type AvailabilityResponse struct {
	Date              string              `json:"date"`
	Slots             map[string]bool     `json:"slots"`
	SlotsInfo         map[string]SlotInfo `json:"slotsInfo"`
	HasAvailableSlots bool                `json:"hasAvailableSlots"`
	AvailableCount    int                 `json:"availableCount"`
}

type CreateAppointmentRequest struct {
	DoctorID  uint   `json:"doctorId" validate:"required,gt=0"`
	PatientID uint   `json:"patientId" validate:"omitempty,gt=0"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	// Time is consulted only when SlotID is absent; its hour selects the slot.
	Time   string `json:"time" validate:"omitempty,datetime=15:04"`
	SlotID string `json:"slotId" validate:"omitempty,max=20"`
	Notes  string `json:"notes" validate:"omitempty,max=2000"`
}

type AppointmentResponse struct {
	ID          uint      `json:"id"`
	DoctorID    uint      `json:"doctor_id"`
	DoctorName  string    `json:"doctor_name,omitempty"`
	PatientID   uint      `json:"patient_id"`
	PatientName string    `json:"patient_name,omitempty"`
	Date        string    `json:"date"`
	SlotID      string    `json:"slot_id"`
	SlotLabel   string    `json:"slot_label"`
	StartsAt    time.Time `json:"starts_at"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// BookingResult is the tagged outcome of a booking attempt. Reason is set
// only on rejection and is one of the BookingReason constants.
type BookingResult struct {
	Success     bool                 `json:"success"`
	Reason      string               `json:"reason,omitempty"`
	Message     string               `json:"message,omitempty"`
	Appointment *AppointmentResponse `json:"appointment,omitempty"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled completed cancelled"`
}

package dto

// ScheduleMap maps "YYYY-MM-DD" date keys to frontend slot id -> availability.
type ScheduleMap map[string]map[string]bool

type UpdateScheduleRequest struct {
	// AvailableSlots carries only the dates the caller touched; dates absent
	// from the payload are left as they are.
	AvailableSlots map[string]map[string]bool `json:"availableSlots" validate:"required"`
}

type ScheduleUpdateSummary struct {
	DatesUpdated   int `json:"dates_updated"`
	DatesSkipped   int `json:"dates_skipped"`
	EntriesWritten int `json:"entries_written"`
	EntriesSkipped int `json:"entries_skipped"`
}

type UpdateScheduleResponse struct {
	Schedule ScheduleMap           `json:"schedule"`
	Summary  ScheduleUpdateSummary `json:"summary"`
}

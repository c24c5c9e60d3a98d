package entity

import (
	"time"
)

// DoctorScheduleEntry represents one doctor's stated availability for one
// time block on one calendar day. SlotID is always stored in the canonical
// backend form. There is no uniqueness constraint beyond natural usage:
// overwrite semantics come from the delete-then-recreate update path.
type DoctorScheduleEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID  uint      `gorm:"not null;index:idx_schedule_doctor_date" json:"doctor_id"`
	Date      time.Time `gorm:"type:date;not null;index:idx_schedule_doctor_date" json:"date"`
	SlotID    string    `gorm:"type:varchar(20);not null" json:"slot_id"`
	Available bool      `gorm:"not null" json:"available"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (DoctorScheduleEntry) TableName() string {
	return "doctor_schedule_entries"
}

package entity

import (
	"time"
)

// PatientProfile represents patient-specific profile data.
// All fields besides the owning user are optional: role changes may create
// a profile with defaulted empty fields when the admin supplies none.
type PatientProfile struct {
	UserID      uint       `gorm:"primaryKey" json:"user_id"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Address     string     `gorm:"type:text" json:"address,omitempty"`
	PhoneNumber string     `gorm:"type:varchar(20)" json:"phone_number,omitempty"`

	// Relationships
	User         User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"appointments,omitempty"`
}

func (PatientProfile) TableName() string {
	return "patient_profiles"
}

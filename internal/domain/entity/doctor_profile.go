package entity

import "github.com/shopspring/decimal"

// DoctorProfile represents doctor-specific profile data
type DoctorProfile struct {
	UserID          uint            `gorm:"primaryKey" json:"user_id"`
	Specialization  string          `gorm:"type:varchar(100);index" json:"specialization"`
	Biography       string          `gorm:"type:text" json:"biography,omitempty"`
	ConsultationFee decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"consultation_fee"`

	// Relationships
	User            User                  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ScheduleEntries []DoctorScheduleEntry `gorm:"foreignKey:DoctorID" json:"schedule_entries,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}

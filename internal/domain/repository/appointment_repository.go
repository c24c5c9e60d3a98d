package repository

import (
	"time"

	"clinic-booking-api/internal/domain/entity"

	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uint) (*entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uint) ([]entity.Appointment, error)
	FindByDoctorID(db *gorm.DB, doctorID uint) ([]entity.Appointment, error)
	// FindActiveByDoctorAndDate returns the non-cancelled appointments of one
	// doctor inside the UTC day starting at date.
	FindActiveByDoctorAndDate(db *gorm.DB, doctorID uint, date time.Time) ([]entity.Appointment, error)
	FindAll(db *gorm.DB) ([]entity.Appointment, error)
	UpdateStatus(db *gorm.DB, id uint, status entity.AppointmentStatus) (int64, error)
	Delete(db *gorm.DB, id uint) (int64, error)
	DeleteByParticipant(db *gorm.DB, userID uint) error
}
